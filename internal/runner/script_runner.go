package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-commit-comic/internal/prompt"
	"github.com/shouni/go-commit-comic/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
)

// ErrMalformedScript は、AIが契約どおりの4パネル台本を返さなかったことを示すのだ。
// この段では再試行しない。やり直すならパイプライン全体を再実行する契約なのだ。
var ErrMalformedScript = errors.New("台本が契約どおりの形式ではないのだ")

// ScriptRunner は、コミット一覧から4パネルの台本を生成するためのインターフェースなのだ。
type ScriptRunner interface {
	// Run は台本生成を実行し、ちょうど4件の PanelScript を返すのだ。
	Run(ctx context.Context, commits []domain.CommitRecord) ([]domain.PanelScript, error)
}

// ComicScriptRunner は、コミットから漫画の構成案（台本）を生成する核となる構造体なのだ。
type ComicScriptRunner struct {
	promptBuilder *prompt.Builder        // AIに渡すプロンプトを構築するビルダー
	aiClient      gemini.GenerativeModel // Gemini APIと通信するクライアント
	model         string                 // 台本生成に使うモデル名
}

// NewComicScriptRunner は、ComicScriptRunnerの新しいインスタンスを生成して返すのだ。
func NewComicScriptRunner(pb *prompt.Builder, ai gemini.GenerativeModel, model string) *ComicScriptRunner {
	return &ComicScriptRunner{
		promptBuilder: pb,
		aiClient:      ai,
		model:         model,
	}
}

// Run は、プロンプト構築、AIによる生成、結果のパースと検証を一気に行うのだ。
func (sr *ComicScriptRunner) Run(ctx context.Context, commits []domain.CommitRecord) ([]domain.PanelScript, error) {
	promptContent, err := sr.promptBuilder.Build(commits)
	if err != nil {
		return nil, err
	}

	slog.Info("台本を生成するのだ", "model", sr.model, "commits", len(commits))

	resp, err := sr.aiClient.GenerateContent(ctx, promptContent, sr.model)
	if err != nil {
		return nil, fmt.Errorf("台本の生成に失敗したのだ: %w", err)
	}

	panels, err := parseScript(resp.Text)
	if err != nil {
		return nil, err
	}

	for i, p := range panels {
		slog.Info("パネル台本ができたのだ", "panel", i+1, "title", p.Title)
	}
	return panels, nil
}

// parseScript は、AIが返したテキストからコードフェンスを除去し、
// ちょうど4件のパネル台本としてパースするのだ。
func parseScript(raw string) ([]domain.PanelScript, error) {
	rawJSON := stripMarkdownFence(raw)

	var panels []domain.PanelScript
	if err := json.Unmarshal([]byte(rawJSON), &panels); err != nil {
		return nil, fmt.Errorf("%w: JSONのパースに失敗したのだ: %v", ErrMalformedScript, err)
	}

	if len(panels) != domain.PanelCount {
		return nil, fmt.Errorf("%w: %d パネルを期待したが %d パネルだったのだ",
			ErrMalformedScript, domain.PanelCount, len(panels))
	}
	return panels, nil
}

// stripMarkdownFence は、AIが付けがちなMarkdownのコードフェンス (```json ... ```) を
// 取り除くのだ。フェンスのない入力はそのまま返る、冪等な処理なのだ。
func stripMarkdownFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// 先頭フェンス行（```json 等の言語タグを含む）を落とすのだ
	if _, after, found := strings.Cut(text, "\n"); found {
		text = after
	}
	// 末尾フェンスを落とすのだ
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
