package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Do は op を最大 attempts 回まで、固定の delay を挟んで再試行します。
// すべて失敗した場合は最後のエラーを返すのだ。ctx のキャンセルで待機中でも打ち切られます。
func Do(ctx context.Context, attempts uint64, delay time.Duration, op func() error) error {
	if attempts == 0 {
		return fmt.Errorf("retry: 試行回数は1以上を指定してほしいのだ")
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), attempts-1),
		ctx,
	)
	return backoff.Retry(op, policy)
}
