package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testWindow(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	since := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	return since, since.AddDate(0, 0, 1)
}

func TestClient_ListCommits(t *testing.T) {
	t.Run("クエリとヘッダーが契約どおりなのだ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/repos/shouni/example/commits" {
				t.Errorf("パスが違うのだ: %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("since") != "2026-08-28T00:00:00Z" || q.Get("until") != "2026-08-29T00:00:00Z" {
				t.Errorf("期間パラメータが違うのだ: since=%s until=%s", q.Get("since"), q.Get("until"))
			}
			if q.Get("per_page") != "100" || q.Get("page") != "1" {
				t.Errorf("ページングパラメータが違うのだ: %s", r.URL.RawQuery)
			}
			if r.Header.Get("Authorization") != "Bearer test-token" {
				t.Errorf("認証ヘッダーが付与されていないのだ: %q", r.Header.Get("Authorization"))
			}
			if r.Header.Get("Accept") != "application/vnd.github+json" {
				t.Errorf("Acceptヘッダーが違うのだ: %q", r.Header.Get("Accept"))
			}
			fmt.Fprint(w, `[{"sha":"a1b2c3d4e5f6","commit":{"message":"Fix bug","author":{"name":"dev"}}}]`)
		}))
		defer srv.Close()

		client := NewClient(srv.Client(), "test-token").WithBaseURL(srv.URL)
		since, until := testWindow(t)

		commits, err := client.ListCommits(context.Background(), "shouni/example", since, until)
		if err != nil {
			t.Fatalf("エラーは想定外なのだ: %v", err)
		}
		if len(commits) != 1 || commits[0].SHA != "a1b2c3d4e5f6" {
			t.Errorf("コミットが正しく返らないのだ: %+v", commits)
		}
		if commits[0].Detail.Author.Name != "dev" {
			t.Errorf("作者名がパースされていないのだ: %+v", commits[0])
		}
	})

	t.Run("トークン未指定なら認証ヘッダーを付けないのだ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Header["Authorization"]; ok {
				t.Error("未認証のはずなのにヘッダーが付いているのだ")
			}
			fmt.Fprint(w, `[]`)
		}))
		defer srv.Close()

		client := NewClient(srv.Client(), "").WithBaseURL(srv.URL)
		since, until := testWindow(t)
		if _, err := client.ListCommits(context.Background(), "shouni/example", since, until); err != nil {
			t.Fatalf("エラーは想定外なのだ: %v", err)
		}
	})

	t.Run("満杯のページが続く限り次ページを取得するのだ", func(t *testing.T) {
		pagesSeen := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pagesSeen++
			page := r.URL.Query().Get("page")
			if page == "1" {
				// 1ページ目は満杯（100件）を返すのだ
				full := make([]Commit, perPage)
				for i := range full {
					full[i] = Commit{SHA: fmt.Sprintf("sha%03d", i)}
				}
				_ = json.NewEncoder(w).Encode(full)
				return
			}
			fmt.Fprint(w, `[{"sha":"last","commit":{"message":"tail","author":{"name":"dev"}}}]`)
		}))
		defer srv.Close()

		client := NewClient(srv.Client(), "").WithBaseURL(srv.URL)
		since, until := testWindow(t)
		commits, err := client.ListCommits(context.Background(), "shouni/example", since, until)
		if err != nil {
			t.Fatalf("エラーは想定外なのだ: %v", err)
		}
		if pagesSeen != 2 {
			t.Errorf("2ページ取得するはずなのだ: %d", pagesSeen)
		}
		if len(commits) != perPage+1 {
			t.Errorf("全ページの合算になっていないのだ: %d", len(commits))
		}
	})

	t.Run("非成功ステータスはStatusErrorなのだ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewClient(srv.Client(), "").WithBaseURL(srv.URL)
		since, until := testWindow(t)
		_, err := client.ListCommits(context.Background(), "shouni/missing", since, until)

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("StatusErrorが返るはずなのだ: %v", err)
		}
		if statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("ステータスコードが保持されていないのだ: %d", statusErr.StatusCode)
		}
	})
}
