package domain

// DateLayout は1日分のコミックを一意に識別する日付の書式です。
const DateLayout = "2006-01-02"

// PanelCount は1本のコミックが必ず持つパネル数です。
const PanelCount = 4

// CommitRecord は取得・正規化済みのコミット1件を表します。
// SHA は短縮ハッシュ（7文字）、Message は1行目のみを保持します。
type CommitRecord struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
}

// SpeechBubble はパネル内の吹き出し1つ分の話者とセリフです。
type SpeechBubble struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// PanelScript は AI モデルから返されるパネル1枚分の台本です。
type PanelScript struct {
	Title   string         `json:"title"`
	Scene   string         `json:"scene"`
	Bubbles []SpeechBubble `json:"bubbles"`
}

// ComicRecord は1日分の成果物として永続化される正規レコードです。
// 保存後の Panels は必ず PanelCount 件になります。
type ComicRecord struct {
	Date    string         `json:"date"`
	Commits []CommitRecord `json:"commits"`
	Panels  []PanelScript  `json:"panels"`
}
