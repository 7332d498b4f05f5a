package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-commit-comic/pkg/asset"
	"github.com/shouni/go-commit-comic/pkg/domain"
	"github.com/shouni/go-commit-comic/pkg/publisher"
	"github.com/shouni/go-commit-comic/pkg/stitch"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// PublishRunner は、保存済みの ComicRecord を GitHub Issue として公開するためのインターフェースなのだ。
type PublishRunner interface {
	// Run は画像のホスティングとIssueの起票を実行するのだ。失敗は警告に格下げされるのだ。
	Run(ctx context.Context, rec domain.ComicRecord) error
}

// IssuePublishRunner は gh CLI を使う PublishRunner の実体なのだ。
type IssuePublishRunner struct {
	ghRepo    string                    // Issueを起票するリポジトリ（owner/name）
	outputDir string                    // 合成画像が保存されているディレクトリ
	reader    remoteio.InputReader      // 合成画像を読み込むリーダー
	uploader  publisher.ReleaseUploader // リリースアセットのアップローダー
	issues    publisher.IssueCreator    // Issueの起票クライアント
}

// NewIssuePublishRunner は、IssuePublishRunnerの新しいインスタンスを生成して返すのだ。
func NewIssuePublishRunner(
	ghRepo, outputDir string,
	reader remoteio.InputReader,
	uploader publisher.ReleaseUploader,
	issues publisher.IssueCreator,
) *IssuePublishRunner {
	return &IssuePublishRunner{
		ghRepo:    ghRepo,
		outputDir: outputDir,
		reader:    reader,
		uploader:  uploader,
		issues:    issues,
	}
}

// Run は画像のホスティング先URLを解決し、セリフの書き起こし付きIssueを起票するのだ。
// 公開処理の失敗は成果物（画像とJSON）に影響しないので、すべて警告止まりなのだ。
func (pr *IssuePublishRunner) Run(ctx context.Context, rec domain.ComicRecord) error {
	if pr.ghRepo == "" {
		slog.Warn("GITHUB_REPOSITORY が未設定なので、Issueの起票をスキップするのだ")
		return nil
	}

	imageURL := pr.resolveImageURL(ctx, rec.Date)

	title := publisher.BuildIssueTitle(rec)
	body := publisher.BuildIssueBody(rec, imageURL)

	issueURL, err := pr.issues.CreateIssue(ctx, title, body)
	if err != nil {
		if errors.Is(err, publisher.ErrGHNotFound) {
			slog.Warn("gh CLI が見つからないので、Issueの起票をスキップするのだ")
			return nil
		}
		slog.Warn("Issueの起票に失敗したのだ", "error", err)
		return nil
	}

	slog.Info("Issueを起票したのだ", "title", title, "url", issueURL)
	return nil
}

// resolveImageURL はリリースアセットへのアップロードを試み、
// 失敗したら raw.githubusercontent.com の直接URLにフォールバックするのだ。
func (pr *IssuePublishRunner) resolveImageURL(ctx context.Context, date string) string {
	assetURL, err := pr.uploadReleaseAsset(ctx, date)
	if err != nil {
		slog.Warn("リリースアセットのアップロードに失敗したのだ。直接URLにフォールバックするのだ",
			"error", err)
		// 公開リポジトリでしか到達できない既知の制約なのだ
		return publisher.RawContentURL(pr.ghRepo, pr.outputDir, date)
	}
	return assetURL
}

// uploadReleaseAsset は合成PNGをJPEGに再圧縮し、タグ付きリリースのアセットとして
// アップロードしてダウンロードURLを返すのだ。
func (pr *IssuePublishRunner) uploadReleaseAsset(ctx context.Context, date string) (string, error) {
	pngPath, err := asset.ComicImagePath(pr.outputDir, date)
	if err != nil {
		return "", err
	}

	rc, err := pr.reader.Open(ctx, pngPath)
	if err != nil {
		return "", fmt.Errorf("合成画像の読み込みに失敗したのだ: %w", err)
	}
	defer rc.Close()

	pngData, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("合成画像の読み込みに失敗したのだ: %w", err)
	}

	jpegData, err := stitch.CompressPNGToJPEG(pngData, stitch.DefaultJPEGQuality)
	if err != nil {
		return "", fmt.Errorf("JPEGへの再圧縮に失敗したのだ: %w", err)
	}
	slog.Info("合成画像をJPEGに再圧縮したのだ",
		"png_bytes", len(pngData), "jpeg_bytes", len(jpegData))

	// gh CLI はファイルパスを要求するので、一時ディレクトリに書き出すのだ
	tmpDir, err := os.MkdirTemp("", "commit-comic-")
	if err != nil {
		return "", fmt.Errorf("一時ディレクトリの作成に失敗したのだ: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	jpegPath := filepath.Join(tmpDir, date+".jpg")
	if err := os.WriteFile(jpegPath, jpegData, 0644); err != nil {
		return "", fmt.Errorf("一時ファイルの書き込みに失敗したのだ: %w", err)
	}

	tag := asset.ReleaseTag(date)
	return pr.uploader.UploadAsset(ctx, tag,
		fmt.Sprintf("Daily Comic %s", date),
		fmt.Sprintf("Auto-generated comic strip for %s", date),
		jpegPath,
	)
}
