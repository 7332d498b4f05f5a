package domain

import (
	"fmt"
	"strings"
	"time"
)

// ResolveDate は引数の日付（YYYY-MM-DD）を検証して返します。
// 空文字列の場合は now の前日（UTC）を採用するのだ。
func ResolveDate(arg string, now time.Time) (string, error) {
	if arg == "" {
		return now.UTC().AddDate(0, 0, -1).Format(DateLayout), nil
	}
	if _, err := time.Parse(DateLayout, arg); err != nil {
		return "", fmt.Errorf("日付は %s 形式で指定してほしいのだ: %w", DateLayout, err)
	}
	return arg, nil
}

// DayWindow は日付文字列から [当日00:00Z, 翌日00:00Z) の半開区間を返します。
func DayWindow(date string) (since, until time.Time, err error) {
	since, err = time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("日付の解析に失敗したのだ: %w", err)
	}
	return since, since.AddDate(0, 0, 1), nil
}

// Speakers はパネルの全吹き出しから重複しない話者名を抽出します。
func (p PanelScript) Speakers() []string {
	seen := make(map[string]struct{})
	var speakers []string
	for _, b := range p.Bubbles {
		if b.Speaker == "" {
			continue
		}
		if _, ok := seen[b.Speaker]; ok {
			continue
		}
		seen[b.Speaker] = struct{}{}
		speakers = append(speakers, b.Speaker)
	}
	return speakers
}

// DialogueLine は吹き出し列を `Speaker: "text"` 形式で1行に平坦化します。
// 画像生成プロンプトへの埋め込みに使うのだ。
func DialogueLine(bubbles []SpeechBubble) string {
	parts := make([]string, 0, len(bubbles))
	for _, b := range bubbles {
		parts = append(parts, fmt.Sprintf("%s: %q", b.Speaker, b.Text))
	}
	return strings.Join(parts, " ")
}
