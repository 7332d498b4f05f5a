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

// publishCmd は、保存済みのコミックを GitHub Issue として公開するのだ。
var publishCmd = &cobra.Command{
	Use:   "publish [date]",
	Short: "保存済みのコミックを GitHub Issue として公開するのだ。",
	Long: `保存済みのJSONレコードを読み直し、合成画像をリリースアセットとしてホスティングして、
セリフの書き起こし付きの Issue を起票するのだ。レコードがない日は何もしないのだよ。`,
	Args: cobra.MaximumNArgs(1),
	RunE: publishCommand,
}

func init() {
}

func publishCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var dateArg string
	if len(args) > 0 {
		dateArg = args[0]
	}
	date, err := domain.ResolveDate(dateArg, time.Now())
	if err != nil {
		return fmt.Errorf("日付の解釈に失敗したのだ: %w", err)
	}

	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("公開モードを起動するのだ！",
		"date", date,
		"issue_repo", cfg.GitHubRepository,
		"output", opts.OutputDir)

	if err := pipeline.ExecutePublish(ctx, cfg, date); err != nil {
		return fmt.Errorf("公開処理中にエラーが発生したのだ: %w", err)
	}

	return nil
}
