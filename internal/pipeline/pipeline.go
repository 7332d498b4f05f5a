package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-commit-comic/internal/builder"
	"github.com/shouni/go-commit-comic/internal/config"
	"github.com/shouni/go-commit-comic/pkg/asset"
	"github.com/shouni/go-commit-comic/pkg/domain"
	"github.com/shouni/go-commit-comic/pkg/publisher"
	"github.com/shouni/go-commit-comic/pkg/stitch"
	"github.com/shouni/go-commit-comic/pkg/viewer"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// Execute は1日分のコミックを最初から最後まで生成するのだ。
// コミット取得 → 台本生成 → パネル画像生成 → 横連結 → 保存、の直列パイプラインなのだ。
func Execute(ctx context.Context, cfg *config.Config, date string) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	// --- Phase 1: Commit Phase (コミット取得) ---
	commits, err := runCommitStep(ctx, appCtx, date)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		slog.Info("対象日のコミットがないので、今日はお休みなのだ", "date", date, "repo", cfg.TargetRepo)
		return nil
	}

	// --- Phase 2: Script Phase (台本生成) ---
	panels, err := runScriptStep(ctx, appCtx, commits)
	if err != nil {
		return err
	}

	// --- Phase 3: Image Phase (イメージ作成) ---
	images, err := runImageStep(ctx, appCtx, panels)
	if err != nil {
		return err
	}
	if err := ensureEnoughPanels(images); err != nil {
		return err
	}

	// --- Phase 4: Stitch & Persist Phase (連結と保存) ---
	rec := domain.ComicRecord{Date: date, Commits: commits, Panels: panels}
	imagePath, err := persistArtifacts(ctx, appCtx, rec, images)
	if err != nil {
		return err
	}

	openViewer(appCtx, imagePath)

	slog.Info("今日の開発コミックが完成したのだ！", "date", date, "panels", len(images), "path", imagePath)
	return nil
}

// ExecutePublish は保存済みレコードを読み直し、GitHub Issue として公開するのだ。
// レコードが存在しない日（コミックを休んだ日）は何もせず正常終了するのだ。
func ExecutePublish(ctx context.Context, cfg *config.Config, date string) error {
	appCtx, err := setupPublishContext(ctx, cfg)
	if err != nil {
		return err
	}

	recordPath, err := asset.ComicRecordPath(cfg.Options.OutputDir, date)
	if err != nil {
		return fmt.Errorf("レコードパスの解決に失敗したのだ: %w", err)
	}

	rc, err := appCtx.Reader.Open(ctx, recordPath)
	if err != nil {
		slog.Warn("公開対象のレコードが見つからないので、何もしないのだ", "path", recordPath, "error", err)
		return nil
	}
	defer rc.Close()

	var rec domain.ComicRecord
	if err := json.NewDecoder(rc).Decode(&rec); err != nil {
		return fmt.Errorf("レコード '%s' のデコードに失敗しました: %w", recordPath, err)
	}

	publishRunner, err := builder.BuildPublishRunner(appCtx)
	if err != nil {
		return fmt.Errorf("PublishRunnerの構築に失敗したのだ: %w", err)
	}

	if err := publishRunner.Run(ctx, rec); err != nil {
		return fmt.Errorf("公開処理に失敗したのだ: %w", err)
	}

	slog.Info("公開処理が完了したのだ！", "date", rec.Date)
	return nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
// 初期化中にエラーが発生した場合は、AppContext のポインタとエラーを返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := httpkit.New(config.DefaultHTTPTimeout)
	aiClient, err := builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}

	reader, writer, err := newRemoteIO(ctx)
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, aiClient, reader, writer)
	return &appCtx, nil
}

// setupPublishContext は公開工程専用の軽量なコンテキストを初期化するのだ。
// 保存済みレコードを読むだけなので、Geminiクライアントは構築しないのだ。
func setupPublishContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	reader, writer, err := newRemoteIO(ctx)
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, nil, nil, reader, writer)
	return &appCtx, nil
}

func newRemoteIO(ctx context.Context) (remoteio.InputReader, remoteio.OutputWriter, error) {
	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, nil, err
	}
	return reader, writer, nil
}

// runCommitStep は GitHubCommitRunner を使って対象日のコミットを取得するのだ
func runCommitStep(ctx context.Context, appCtx *builder.AppContext, date string) ([]domain.CommitRecord, error) {
	slog.Info("Phase 1: コミット取得を開始するのだ...", "date", date, "repo", appCtx.Config.TargetRepo)
	commitRunner, err := builder.BuildCommitRunner(appCtx)
	if err != nil {
		return nil, fmt.Errorf("CommitRunnerの構築に失敗したのだ: %w", err)
	}

	commits, err := commitRunner.Run(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("コミット取得に失敗したのだ: %w", err)
	}
	return commits, nil
}

// runScriptStep は ComicScriptRunner を使って4コマの台本を生成するのだ
func runScriptStep(ctx context.Context, appCtx *builder.AppContext, commits []domain.CommitRecord) ([]domain.PanelScript, error) {
	slog.Info("Phase 2: 台本生成を開始するのだ...", "commits", len(commits))
	scriptRunner, err := builder.BuildScriptRunner(appCtx)
	if err != nil {
		return nil, fmt.Errorf("ScriptRunnerの構築に失敗したのだ: %w", err)
	}

	panels, err := scriptRunner.Run(ctx, commits)
	if err != nil {
		return nil, fmt.Errorf("台本生成に失敗したのだ: %w", err)
	}
	return panels, nil
}

// ensureEnoughPanels は、連結に足る枚数のパネルが生き残ったかを検証するのだ。
// これを下回ったら合成もレコード保存も行わず、実行全体を失敗として扱うのだ。
func ensureEnoughPanels(images []*imagedom.ImageResponse) error {
	if len(images) < config.MinStitchPanels {
		return fmt.Errorf("連結に必要なパネル数が足りないのだ (got=%d, want>=%d)", len(images), config.MinStitchPanels)
	}
	return nil
}

// runImageStep は ComicPanelRunner を使ってパネル画像を直列生成するのだ
func runImageStep(ctx context.Context, appCtx *builder.AppContext, panels []domain.PanelScript) ([]*imagedom.ImageResponse, error) {
	slog.Info("Phase 3: 画像生成を開始するのだ...", "panels", len(panels))
	imageRunner, err := builder.BuildImageRunner(appCtx)
	if err != nil {
		return nil, fmt.Errorf("ImageRunnerの構築に失敗したのだ: %w", err)
	}

	images, err := imageRunner.Run(ctx, panels)
	if err != nil {
		return nil, fmt.Errorf("画像生成に失敗したのだ: %w", err)
	}
	return images, nil
}

// persistArtifacts はパネル画像を1枚に連結し、画像とJSONレコードを保存して
// 画像の保存先パスを返すのだ。HTMLプレビューは最善努力で書き出すのだ。
func persistArtifacts(ctx context.Context, appCtx *builder.AppContext, rec domain.ComicRecord, images []*imagedom.ImageResponse) (string, error) {
	slog.Info("Phase 4: 連結と保存を開始するのだ...", "panels", len(images))

	panelData := make([][]byte, 0, len(images))
	for _, img := range images {
		panelData = append(panelData, img.Data)
	}

	composed, err := stitch.Compose(panelData, stitch.DefaultGap)
	if err != nil {
		return "", fmt.Errorf("パネルの連結に失敗したのだ: %w", err)
	}
	pngData, err := stitch.EncodePNG(composed)
	if err != nil {
		return "", fmt.Errorf("PNGエンコードに失敗したのだ: %w", err)
	}

	imagePath, err := asset.ComicImagePath(appCtx.Options.OutputDir, rec.Date)
	if err != nil {
		return "", fmt.Errorf("画像パスの解決に失敗したのだ: %w", err)
	}
	if err := appCtx.Writer.Write(ctx, imagePath, bytes.NewReader(pngData), "image/png"); err != nil {
		return "", fmt.Errorf("合成画像の保存に失敗したのだ: %w", err)
	}

	recordPath, err := asset.ComicRecordPath(appCtx.Options.OutputDir, rec.Date)
	if err != nil {
		return "", fmt.Errorf("レコードパスの解決に失敗したのだ: %w", err)
	}
	recordJSON, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("レコードのエンコードに失敗したのだ: %w", err)
	}
	if err := appCtx.Writer.Write(ctx, recordPath, bytes.NewReader(recordJSON), "application/json"); err != nil {
		return "", fmt.Errorf("レコードの保存に失敗したのだ: %w", err)
	}

	writePreview(ctx, appCtx, rec)

	return imagePath, nil
}

// writePreview はセリフの書き起こし付きHTMLプレビューを保存するのだ。
// 失敗しても画像とレコードは残っているので、警告止まりで続行するのだ。
func writePreview(ctx context.Context, appCtx *builder.AppContext, rec domain.ComicRecord) {
	htmlRunner, err := builder.BuildHTMLRunner()
	if err != nil {
		slog.Warn("HTMLプレビューの準備に失敗しました", "error", err)
		return
	}

	title := publisher.BuildIssueTitle(rec)
	markdown := publisher.BuildIssueBody(rec, rec.Date+asset.ComicImageExt)
	htmlBuffer, err := htmlRunner.Run(ctx, title, []byte(markdown))
	if err != nil {
		slog.Warn("HTMLプレビューの変換に失敗しました", "error", err)
		return
	}

	previewPath, err := asset.ComicPreviewPath(appCtx.Options.OutputDir, rec.Date)
	if err != nil {
		slog.Warn("HTMLプレビューのパス解決に失敗しました", "error", err)
		return
	}
	if err := appCtx.Writer.Write(ctx, previewPath, htmlBuffer, "text/html; charset=utf-8"); err != nil {
		slog.Warn("HTMLプレビューの保存に失敗しました", "path", previewPath, "error", err)
		return
	}
	slog.Info("HTMLプレビューを保存したのだ", "path", previewPath)
}

// openViewer は完成した画像をOS標準のビューアで開くのだ。最善努力なのだ。
func openViewer(appCtx *builder.AppContext, imagePath string) {
	if appCtx.Options.NoOpen || strings.HasPrefix(imagePath, "gs://") {
		return
	}
	var opener viewer.Opener = viewer.ExecOpener{}
	if err := opener.Open(imagePath); err != nil {
		slog.Warn("ビューアの起動に失敗しました", "path", imagePath, "error", err)
	}
}
