package viewer

import (
	"os/exec"
	"runtime"
)

// Opener は成果物をOS標準のビューアで開く契約です。
// 失敗しても実行結果には影響させない、最善努力の機能なのだ。
type Opener interface {
	Open(path string) error
}

// ExecOpener はOSごとの標準コマンドでファイルを開きます。
type ExecOpener struct{}

// Open はプラットフォームに応じたオープナーを起動します。
func (ExecOpener) Open(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}

// NopOpener は何もしないオープナーです。ヘッドレス環境やテストで使うのだ。
type NopOpener struct{}

// Open は常に成功します。
func (NopOpener) Open(string) error { return nil }
