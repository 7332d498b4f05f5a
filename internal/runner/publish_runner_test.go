package runner

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/shouni/go-commit-comic/pkg/domain"
	"github.com/shouni/go-commit-comic/pkg/publisher"
)

// fakeReader はパスに応じたバイト列を返す InputReader のテストダブルなのだ。
type fakeReader struct {
	files map[string][]byte
}

func (f *fakeReader) Open(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("ファイルが見つからないのだ: " + path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fakeUploader struct {
	url string
	err error

	gotTag string
}

func (f *fakeUploader) UploadAsset(_ context.Context, tag, _, _, _ string) (string, error) {
	f.gotTag = tag
	return f.url, f.err
}

type fakeIssueCreator struct {
	err error

	gotTitle string
	gotBody  string
	calls    int
}

func (f *fakeIssueCreator) CreateIssue(_ context.Context, title, body string) (string, error) {
	f.calls++
	f.gotTitle, f.gotBody = title, body
	return "https://github.com/shouni/example/issues/1", f.err
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("テスト画像の生成に失敗したのだ: %v", err)
	}
	return buf.Bytes()
}

func publishRecord() domain.ComicRecord {
	return domain.ComicRecord{
		Date:    "2026-08-28",
		Commits: []domain.CommitRecord{{SHA: "a1b2c3d", Message: "Fix bug", Author: "dev"}},
		Panels: []domain.PanelScript{{
			Title:   "Fix bug",
			Scene:   "Knight slays a bug monster.",
			Bubbles: []domain.SpeechBubble{{Speaker: "Knight", Text: "Done."}},
		}},
	}
}

func TestIssuePublishRunner_Run(t *testing.T) {
	t.Run("対象リポジトリ未設定なら警告だけで成功なのだ", func(t *testing.T) {
		issues := &fakeIssueCreator{}
		pr := NewIssuePublishRunner("", "comic-strips", &fakeReader{}, &fakeUploader{}, issues)

		if err := pr.Run(context.Background(), publishRecord()); err != nil {
			t.Fatalf("no-opのはずなのだ: %v", err)
		}
		if issues.calls != 0 {
			t.Error("Issueが起票されてしまったのだ")
		}
	})

	t.Run("アップロード成功ならアセットURLで起票するのだ", func(t *testing.T) {
		reader := &fakeReader{files: map[string][]byte{
			"comic-strips/2026-08-28.png": testPNG(t),
		}}
		uploader := &fakeUploader{url: "https://github.com/release/asset.jpg"}
		issues := &fakeIssueCreator{}
		pr := NewIssuePublishRunner("shouni/example", "comic-strips", reader, uploader, issues)

		if err := pr.Run(context.Background(), publishRecord()); err != nil {
			t.Fatalf("エラーは想定外なのだ: %v", err)
		}
		if uploader.gotTag != "comic-2026-08-28" {
			t.Errorf("リリースタグが違うのだ: %s", uploader.gotTag)
		}
		if !strings.Contains(issues.gotBody, "https://github.com/release/asset.jpg") {
			t.Errorf("アセットURLが本文に含まれないのだ:\n%s", issues.gotBody)
		}
		if issues.gotTitle != "Daily Comic — 2026-08-28 — 1 commits" {
			t.Errorf("Issueタイトルが違うのだ: %s", issues.gotTitle)
		}
	})

	t.Run("アップロード失敗なら直接URLにフォールバックするのだ", func(t *testing.T) {
		reader := &fakeReader{files: map[string][]byte{
			"comic-strips/2026-08-28.png": testPNG(t),
		}}
		uploader := &fakeUploader{err: errors.New("リリース作成に失敗なのだ")}
		issues := &fakeIssueCreator{}
		pr := NewIssuePublishRunner("shouni/example", "comic-strips", reader, uploader, issues)

		if err := pr.Run(context.Background(), publishRecord()); err != nil {
			t.Fatalf("フォールバックで続行するはずなのだ: %v", err)
		}
		want := "https://raw.githubusercontent.com/shouni/example/main/comic-strips/2026-08-28.png"
		if !strings.Contains(issues.gotBody, want) {
			t.Errorf("フォールバックURLが本文に含まれないのだ:\n%s", issues.gotBody)
		}
	})

	t.Run("合成画像が読めなくてもフォールバックで起票するのだ", func(t *testing.T) {
		issues := &fakeIssueCreator{}
		pr := NewIssuePublishRunner("shouni/example", "comic-strips", &fakeReader{}, &fakeUploader{}, issues)

		if err := pr.Run(context.Background(), publishRecord()); err != nil {
			t.Fatalf("エラーは想定外なのだ: %v", err)
		}
		if issues.calls != 1 {
			t.Error("フォールバックでも起票するはずなのだ")
		}
	})

	t.Run("起票失敗は警告止まりなのだ", func(t *testing.T) {
		issues := &fakeIssueCreator{err: errors.New("ghが落ちたのだ")}
		pr := NewIssuePublishRunner("shouni/example", "comic-strips", &fakeReader{}, &fakeUploader{}, issues)

		if err := pr.Run(context.Background(), publishRecord()); err != nil {
			t.Fatalf("公開失敗は致命ではないのだ: %v", err)
		}
	})

	t.Run("gh未インストールは警告止まりなのだ", func(t *testing.T) {
		issues := &fakeIssueCreator{err: publisher.ErrGHNotFound}
		pr := NewIssuePublishRunner("shouni/example", "comic-strips", &fakeReader{}, &fakeUploader{}, issues)

		if err := pr.Run(context.Background(), publishRecord()); err != nil {
			t.Fatalf("gh不在は致命ではないのだ: %v", err)
		}
	})
}
