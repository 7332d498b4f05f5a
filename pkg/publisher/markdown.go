package publisher

import (
	"fmt"
	"path"
	"strings"

	"github.com/shouni/go-commit-comic/pkg/domain"
)

// BuildIssueTitle は Issue のタイトルを組み立てます。
func BuildIssueTitle(rec domain.ComicRecord) string {
	return fmt.Sprintf("Daily Comic — %s — %d commits", rec.Date, len(rec.Commits))
}

// BuildIssueBody は合成画像への参照と、パネルごとのセリフの書き起こしを持つ
// Markdown本文を組み立てます。
func BuildIssueBody(rec domain.ComicRecord, imageURL string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("![Daily Comic — %s](%s)\n", rec.Date, imageURL))
	sb.WriteString("\n---\n\n")

	for i, panel := range rec.Panels {
		sb.WriteString(fmt.Sprintf("### Panel %d: %s\n", i+1, panel.Title))
		for _, bubble := range panel.Bubbles {
			sb.WriteString(fmt.Sprintf("> **%s**: %s\n", bubble.Speaker, bubble.Text))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("*%d commits summarized into %d panels.*\n", len(rec.Commits), len(rec.Panels)))

	return sb.String()
}

// RawContentURL はリリースアップロード失敗時のフォールバックとして、
// raw.githubusercontent.com 上の合成PNGへの直接URLを組み立てます。
// 公開リポジトリでしか到達できない点は既知の制約なのだ。
func RawContentURL(ghRepo, outputDir, date string) string {
	dir := path.Clean(strings.ReplaceAll(outputDir, "\\", "/"))
	dir = strings.Trim(dir, "/")
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/main/%s/%s.png", ghRepo, dir, date)
}
