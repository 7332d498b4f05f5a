package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shouni/go-commit-comic/internal/config"
	"github.com/shouni/go-commit-comic/internal/prompt"
	"github.com/shouni/go-commit-comic/internal/runner"
	"github.com/shouni/go-commit-comic/pkg/githubapi"
	"github.com/shouni/go-commit-comic/pkg/publisher"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/gemini-image-kit/pkg/generator"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-text-format/pkg/builder"
	"github.com/shouni/go-text-format/pkg/md2htmlrunner"
	"google.golang.org/genai"
)

// BuildCommitRunner はコミット履歴の取得を担当する Runner を構築します。
func BuildCommitRunner(appCtx *AppContext) (runner.CommitRunner, error) {
	if appCtx.Config.TargetRepo == "" {
		return nil, fmt.Errorf("コミット取得元リポジトリ（TARGET_REPO）が未設定なのだ")
	}

	apiClient := githubapi.NewClient(
		&http.Client{Timeout: appCtx.Options.HTTPTimeout},
		appCtx.Config.GitHubToken,
	)
	return runner.NewGitHubCommitRunner(apiClient, appCtx.Config.TargetRepo), nil
}

// BuildScriptRunner は4コマ台本の生成を担当する Runner を構築します。
func BuildScriptRunner(appCtx *AppContext) (runner.ScriptRunner, error) {
	promptBuilder, err := prompt.NewBuilder()
	if err != nil {
		return nil, fmt.Errorf("プロンプトビルダーの初期化に失敗したのだ: %w", err)
	}

	return runner.NewComicScriptRunner(promptBuilder, appCtx.aiClient, resolveTextModel(appCtx)), nil
}

// BuildImageRunner は個別パネル画像生成を担当する Runner を構築します。
func BuildImageRunner(appCtx *AppContext) (runner.ImageRunner, error) {
	imgGen, err := InitializeImageGenerator(appCtx)
	if err != nil {
		return nil, fmt.Errorf("GeminiGeneratorの初期化に失敗したのだ: %w", err)
	}

	return runner.NewComicPanelRunner(
		imgGen,
		appCtx.Config.ImageStylePrefix,
		config.DefaultPanelInterval,
		config.DefaultImageRetryWait,
		config.DefaultImageRetryCount,
	), nil
}

// BuildPublishRunner は Issue 起票と画像ホスティングを担当する Runner を構築します。
// gh CLI が使えない環境でも構築自体は成功し、実行時に警告へ格下げされるのだ。
func BuildPublishRunner(appCtx *AppContext) (runner.PublishRunner, error) {
	ghClient := publisher.NewGHClient()
	return runner.NewIssuePublishRunner(
		appCtx.Config.GitHubRepository,
		appCtx.Options.OutputDir,
		appCtx.Reader,
		ghClient,
		ghClient,
	), nil
}

// BuildHTMLRunner は Markdown から HTML プレビューへの変換器を構築します。
func BuildHTMLRunner() (md2htmlrunner.Runner, error) {
	builderConfig := builder.BuilderConfig{
		EnableHardWraps: true,
		Mode:            "webtoon",
	}
	appBuilder, err := builder.NewBuilder(builderConfig)
	if err != nil {
		return nil, fmt.Errorf("アプリケーションビルダーの初期化に失敗しました: %w", err)
	}

	htmlRunner, err := appBuilder.BuildRunner()
	if err != nil {
		return nil, fmt.Errorf("MarkdownToHtmlRunnerの初期化に失敗しました: %w", err)
	}
	return htmlRunner, nil
}

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// InitializeImageGenerator は ImageGeneratorを初期化します。
func InitializeImageGenerator(appCtx *AppContext) (generator.ImageGenerator, error) {
	imgCache := cache.New(30*time.Minute, 1*time.Hour)
	cacheTTL := 1 * time.Hour

	// 画像処理コアを生成
	core, err := generator.NewGeminiImageCore(
		appCtx.httpClient,
		imgCache,
		cacheTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCoreの初期化に失敗したのだ: %w", err)
	}

	imgGen, err := generator.NewGeminiGenerator(core, appCtx.aiClient, resolveImageModel(appCtx))
	if err != nil {
		return nil, fmt.Errorf("GeminiGeneratorの初期化に失敗しました: %w", err)
	}
	return imgGen, nil
}

// resolveTextModel はフラグ指定を優先し、なければ環境変数由来のモデル名を返すのだ。
func resolveTextModel(appCtx *AppContext) string {
	if appCtx.Options.AIModel != "" {
		return appCtx.Options.AIModel
	}
	return appCtx.Config.GeminiModel
}

// resolveImageModel は画像生成用モデル名を同じ優先順位で解決するのだ。
func resolveImageModel(appCtx *AppContext) string {
	if appCtx.Options.ImageModel != "" {
		return appCtx.Options.ImageModel
	}
	return appCtx.Config.GeminiImageModel
}
