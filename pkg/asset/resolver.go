package asset

import (
	"github.com/shouni/go-utils/urlpath"
)

const (
	// ComicImageExt は合成画像（可逆）の拡張子です。
	ComicImageExt = ".png"
	// ComicRecordExt は1日分の正規レコード（JSON）の拡張子です。
	ComicRecordExt = ".json"
	// ComicPreviewExt はIssue本文のHTMLプレビューの拡張子です。
	ComicPreviewExt = ".html"

	// ReleaseTagPrefix はリリースアセットのタグの接頭辞です。
	ReleaseTagPrefix = "comic-"
)

// ComicImagePath は合成画像の出力パスを GCS/ローカルを考慮して解決します。
func ComicImagePath(outputDir, date string) (string, error) {
	return urlpath.ResolveOutputPath(outputDir, date+ComicImageExt)
}

// ComicRecordPath は ComicRecord JSON の出力パスを解決します。
func ComicRecordPath(outputDir, date string) (string, error) {
	return urlpath.ResolveOutputPath(outputDir, date+ComicRecordExt)
}

// ComicPreviewPath はHTMLプレビューの出力パスを解決します。
func ComicPreviewPath(outputDir, date string) (string, error) {
	return urlpath.ResolveOutputPath(outputDir, date+ComicPreviewExt)
}

// ReleaseTag は日付からリリースタグ（comic-YYYY-MM-DD）を組み立てます。
func ReleaseTag(date string) string {
	return ReleaseTagPrefix + date
}
