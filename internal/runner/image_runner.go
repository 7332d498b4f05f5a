package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-commit-comic/pkg/domain"
	"github.com/shouni/go-commit-comic/pkg/retry"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"golang.org/x/time/rate"
)

// negativePrompt は低品質な描写を排除するのだ。
// このコミックは吹き出しと文字を「描いてほしい」ので、テキスト禁止の指示は入れないのだ。
const negativePrompt = "low quality, blurry, distorted, bad anatomy, extra limbs, watermark, signature, username"

// ImageRunner は、台本を基にパネル画像を生成するためのインターフェースなのだ。
type ImageRunner interface {
	// Run は各パネルの画像生成を実行し、成功した分だけを台本の順序で返すのだ。
	Run(ctx context.Context, panels []domain.PanelScript) ([]*imagedom.ImageResponse, error)
}

// PanelImageAdapter は画像生成AI（Gemini）へのアダプターの契約なのだ。
type PanelImageAdapter interface {
	GenerateMangaPanel(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error)
}

// ComicPanelRunner は、レート制限と再試行を挟みながら直列で画像生成を行う実体なのだ。
type ComicPanelRunner struct {
	adapter     PanelImageAdapter // 画像生成AIへのアダプター
	stylePrefix string            // 全パネル共通で適用する画風（スタイル）の指示
	limiter     *rate.Limiter     // パネル間のペーシング（レート制限回避）
	attempts    uint64            // 1パネルあたりの最大試行回数
	retryWait   time.Duration     // 再試行の間隔
}

// NewComicPanelRunner は、ComicPanelRunnerの新しいインスタンスを生成して返すのだ。
func NewComicPanelRunner(adapter PanelImageAdapter, stylePrefix string, interval, retryWait time.Duration, attempts uint64) *ComicPanelRunner {
	return &ComicPanelRunner{
		adapter:     adapter,
		stylePrefix: stylePrefix,
		limiter:     rate.NewLimiter(rate.Every(interval), 1),
		attempts:    attempts,
		retryWait:   retryWait,
	}
}

// Run はパネルを1枚ずつ直列に生成するメインロジックなのだ。
// 再試行まで尽きたパネルはスキップし、成功した分だけを返すのだ。
func (ir *ComicPanelRunner) Run(ctx context.Context, panels []domain.PanelScript) ([]*imagedom.ImageResponse, error) {
	slog.Info("パネル画像の直列生成を開始するのだ", "count", len(panels), "interval", ir.limiter.Limit())

	images := make([]*imagedom.ImageResponse, 0, len(panels))
	for i, panel := range panels {
		// 1. レート制限に従って、自分の番が来るまで待機するのだ
		if err := ir.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		slog.Info("パネルを生成中...", "panel", i+1, "title", panel.Title)

		resp, err := ir.generateWithRetry(ctx, panel)
		if err != nil {
			slog.Warn("パネル生成を諦めてスキップするのだ", "panel", i+1, "error", err)
			continue
		}

		images = append(images, resp)
		slog.Info("パネル生成に成功したのだ", "panel", i+1, "bytes", len(resp.Data))
	}

	slog.Info("画像生成が完了したのだ", "succeeded", len(images), "total", len(panels))
	return images, nil
}

// generateWithRetry は1パネル分の生成を固定間隔の再試行つきで実行するのだ。
// 空のレスポンスも失敗した試行として数えるのだ。
func (ir *ComicPanelRunner) generateWithRetry(ctx context.Context, panel domain.PanelScript) (*imagedom.ImageResponse, error) {
	prompt := ir.buildPanelPrompt(panel)

	var result *imagedom.ImageResponse
	err := retry.Do(ctx, ir.attempts, ir.retryWait, func() error {
		resp, err := ir.adapter.GenerateMangaPanel(ctx, imagedom.ImageGenerationRequest{
			Prompt:         prompt,
			NegativePrompt: negativePrompt,
		})
		if err != nil {
			return err
		}
		if resp == nil || len(resp.Data) == 0 {
			return fmt.Errorf("レスポンスに画像が含まれていないのだ")
		}
		result = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// buildPanelPrompt は、画風、タイトルバー、シーン描写、吹き出しを合成してプロンプトを作るのだ。
func (ir *ComicPanelRunner) buildPanelPrompt(panel domain.PanelScript) string {
	return fmt.Sprintf("%sTOP TITLE BAR (black bar with white bold text): '%s'. %s Speech bubbles: %s",
		ir.stylePrefix,
		panel.Title,
		panel.Scene,
		domain.DialogueLine(panel.Bubbles),
	)
}
