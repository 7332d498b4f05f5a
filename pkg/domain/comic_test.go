package domain

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestComicRecord_JSON(t *testing.T) {
	t.Run("ComicRecordが正しくJSON変換できるのだ", func(t *testing.T) {
		rec := ComicRecord{
			Date: "2026-08-28",
			Commits: []CommitRecord{
				{SHA: "a1b2c3d", Message: "Fix: off-by-one in onboarding", Author: "dev"},
			},
			Panels: []PanelScript{
				{
					Title: "Fix: off-by-one in onboarding",
					Scene: "Giant two-headed monster towering over a village.",
					Bubbles: []SpeechBubble{
						{Speaker: "Villager", Text: "He fixed the counter!"},
						{Speaker: "Knight", Text: "It was an off-by-one error."},
					},
				},
			},
		}

		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("Marshal失敗なのだ: %v", err)
		}

		var decoded ComicRecord
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal失敗なのだ: %v", err)
		}

		if !reflect.DeepEqual(rec, decoded) {
			t.Errorf("変換前後でデータが一致しないのだ。期待: %+v, 実際: %+v", rec, decoded)
		}
	})

	t.Run("AIからのレスポンス形式をシミュレートするのだ", func(t *testing.T) {
		inputJSON := `[
			{
				"title": "Delete 14 test routes",
				"scene": "Knight casually pushes over 20 buildings like dominoes.",
				"bubbles": [
					{"speaker": "Villager", "text": "I lived in landing-v3..."},
					{"speaker": "Knight", "text": "Nobody lived in landing-v3."}
				]
			}
		]`

		var panels []PanelScript
		if err := json.Unmarshal([]byte(inputJSON), &panels); err != nil {
			t.Fatalf("パース失敗なのだ: %v", err)
		}

		if len(panels) != 1 || panels[0].Title != "Delete 14 test routes" {
			t.Errorf("パネル内容が正しくパースされていないのだ: %+v", panels)
		}
		if panels[0].Bubbles[1].Speaker != "Knight" {
			t.Error("吹き出しの話者が正しくパースされていないのだ")
		}
	})
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)

	t.Run("未指定なら前日（UTC）になるのだ", func(t *testing.T) {
		got, err := ResolveDate("", now)
		if err != nil {
			t.Fatalf("エラーは想定外なのだ: %v", err)
		}
		if got != "2026-08-28" {
			t.Errorf("前日になっていないのだ: %s", got)
		}
	})

	t.Run("UTC換算で日付をまたぐケースも前日になるのだ", func(t *testing.T) {
		jst := time.FixedZone("JST", 9*60*60)
		got, err := ResolveDate("", time.Date(2026, 8, 29, 2, 0, 0, 0, jst))
		if err != nil {
			t.Fatalf("エラーは想定外なのだ: %v", err)
		}
		// JST 8/29 02:00 は UTC では 8/28 17:00 なので、前日は 8/27 なのだ
		if got != "2026-08-27" {
			t.Errorf("UTC基準になっていないのだ: %s", got)
		}
	})

	t.Run("正しい形式ならそのまま返すのだ", func(t *testing.T) {
		got, err := ResolveDate("2026-01-02", now)
		if err != nil || got != "2026-01-02" {
			t.Errorf("指定日付が保持されないのだ: %s, %v", got, err)
		}
	})

	t.Run("不正な形式はエラーなのだ", func(t *testing.T) {
		if _, err := ResolveDate("2026/01/02", now); err == nil {
			t.Error("不正な日付がエラーにならないのだ")
		}
	})
}

func TestDayWindow(t *testing.T) {
	t.Run("当日0時から翌日0時までの半開区間を返すのだ", func(t *testing.T) {
		since, until, err := DayWindow("2026-08-28")
		if err != nil {
			t.Fatalf("エラーは想定外なのだ: %v", err)
		}
		if !since.Equal(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("開始時刻が違うのだ: %v", since)
		}
		if !until.Equal(time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("終了時刻が違うのだ: %v", until)
		}
	})
}

func TestDialogueLine(t *testing.T) {
	t.Run("吹き出しが1行のプロンプト文字列になるのだ", func(t *testing.T) {
		got := DialogueLine([]SpeechBubble{
			{Speaker: "Villager", Text: "The tabs... they ANIMATE now!"},
			{Speaker: "Knight", Text: "It's a menu bar."},
		})
		want := `Villager: "The tabs... they ANIMATE now!" Knight: "It's a menu bar."`
		if got != want {
			t.Errorf("期待: %s, 実際: %s", want, got)
		}
	})
}
