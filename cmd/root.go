package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-commit-comic/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts はフラグ解析の結果を受け取る実行時パラメータなのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "合成画像とJSONレコードの保存先（ローカル or gs://...）なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", "", "台本生成に使う Gemini モデル名なのだ（未指定なら GEMINI_MODEL を使うのだ）。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", "", "画像生成に使う Gemini モデル名なのだ（未指定なら IMAGE_GEMINI_MODEL を使うのだ）。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "GitHub APIリクエストのタイムアウトなのだ。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().BoolVar(&opts.NoOpen, "no-open", false, "完成画像をビューアで開かないのだ（CI向け）。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// publish は保存済みレコードを読むだけなので、Gemini APIキーは不要なのだ
	if cmd.Name() == "publish" {
		return nil
	}

	// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"commit-comic-go",
		addAppFlags,
		preRunAppE,
		generateCmd,
		publishCmd,
	)
}
