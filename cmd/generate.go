package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-commit-comic/internal/config"
	"github.com/shouni/go-commit-comic/internal/pipeline"
	"github.com/shouni/go-commit-comic/pkg/domain"

	"github.com/spf13/cobra"
)

// generateCmd は、1日分のコミットから4コマのコミック画像を生成するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate [date]",
	Short: "コミット履歴から今日の4コマを生成するのだ。",
	Long: `対象リポジトリの1日分のコミットを取得し、AIに4コマの台本とパネル画像を生成させ、
1枚に連結した画像とJSONレコードを保存するのだ。日付（YYYY-MM-DD）を省略すると昨日分になるのだよ。`,
	Args: cobra.MaximumNArgs(1),
	RunE: generateCommand,
}

func init() {
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 対象日の解決（省略時はUTCの昨日なのだ）
	var dateArg string
	if len(args) > 0 {
		dateArg = args[0]
	}
	date, err := domain.ResolveDate(dateArg, time.Now())
	if err != nil {
		return fmt.Errorf("日付の解釈に失敗したのだ: %w", err)
	}

	// 2. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("コミック生成パイプラインを起動するのだ！",
		"date", date,
		"repo", cfg.TargetRepo,
		"output", opts.OutputDir)

	// 3. 更新した config を考慮しつつパイプラインを実行するのだ
	if err := pipeline.Execute(ctx, cfg, date); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}
