package publisher

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGHNotFound は gh CLI がインストールされていないことを示します。
// パブリッシュ工程は警告に格下げして続行する契約なのだ。
var ErrGHNotFound = errors.New("publisher: gh CLI が見つかりません")

// ReleaseUploader は合成画像をリリースアセットとしてホスティングする契約です。
type ReleaseUploader interface {
	// UploadAsset はタグ付きリリースを作成してアセットを添付し、そのダウンロードURLを返します。
	UploadAsset(ctx context.Context, tag, title, notes, assetPath string) (string, error)
}

// IssueCreator は Issue を起票する契約です。
type IssueCreator interface {
	// CreateIssue は Issue を作成し、そのURLを返します。
	CreateIssue(ctx context.Context, title, body string) (string, error)
}

// GHClient は gh CLI をサブプロセスとして呼び出す ReleaseUploader / IssueCreator の実装です。
type GHClient struct{}

// NewGHClient は GHClient を生成します。
func NewGHClient() *GHClient {
	return &GHClient{}
}

// UploadAsset はリリース作成とアセットURLの読み出しを gh CLI に委譲します。
func (c *GHClient) UploadAsset(ctx context.Context, tag, title, notes, assetPath string) (string, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return "", ErrGHNotFound
	}

	create := exec.CommandContext(ctx, "gh", "release", "create", tag, assetPath,
		"--title", title,
		"--notes", notes,
	)
	if output, err := create.CombinedOutput(); err != nil {
		return "", fmt.Errorf("publisher: gh release create が失敗しました: %s", strings.TrimSpace(string(output)))
	}

	view := exec.CommandContext(ctx, "gh", "release", "view", tag,
		"--json", "assets",
		"--jq", ".assets[0].url",
	)
	output, err := view.Output()
	if err != nil {
		return "", fmt.Errorf("publisher: gh release view が失敗しました: %w", err)
	}

	assetURL := strings.TrimSpace(string(output))
	if assetURL == "" {
		return "", fmt.Errorf("publisher: リリースアセットのURLが取得できませんでした (tag=%s)", tag)
	}
	return assetURL, nil
}

// CreateIssue は Issue の起票を gh CLI に委譲します。
func (c *GHClient) CreateIssue(ctx context.Context, title, body string) (string, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return "", ErrGHNotFound
	}

	cmd := exec.CommandContext(ctx, "gh", "issue", "create",
		"--title", title,
		"--body", body,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("publisher: gh issue create が失敗しました: %s", strings.TrimSpace(string(output)))
	}

	// gh issue create は作成したIssueのURLを標準出力するのだ
	return strings.TrimSpace(string(output)), nil
}
