package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL は GitHub REST API のエンドポイントです。
	DefaultBaseURL = "https://api.github.com"

	// perPage は1ページあたりの取得件数です。これより少ないページが返ったら最終ページと判断します。
	perPage = 100
)

// Doer は HTTP リクエストを実行する契約です。テストでは httptest と *http.Client を注入します。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError は GitHub API が非成功ステータスを返したことを示すエラーです。
// フェッチ失敗は再試行せず、実行全体を中断させる契約なのだ。
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("githubapi: コミット取得が失敗しました (status=%d, url=%s)", e.StatusCode, e.URL)
}

// Commit は /repos/{repo}/commits が返すコミットオブジェクトのうち、必要な部分だけの射影です。
type Commit struct {
	SHA    string       `json:"sha"`
	Detail CommitDetail `json:"commit"`
}

// CommitDetail はコミットメッセージと作者情報を保持します。
type CommitDetail struct {
	Message string       `json:"message"`
	Author  CommitAuthor `json:"author"`
}

// CommitAuthor はコミット作者の表示名とオーサー日時です。
type CommitAuthor struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// Client は GitHub REST API の薄いクライアントです。
type Client struct {
	httpClient Doer
	baseURL    string
	token      string
}

// NewClient は Client を生成します。token は空でも構いません（未認証のレート制限が適用されるだけなのだ）。
func NewClient(httpClient Doer, token string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
		token:      token,
	}
}

// WithBaseURL はエンドポイントを差し替えた Client を返します。テスト用なのだ。
func (c *Client) WithBaseURL(baseURL string) *Client {
	clone := *c
	clone.baseURL = baseURL
	return &clone
}

// ListCommits は [since, until) の期間に属するコミットを全ページ分取得して返します。
// ページは perPage 件ずつ取得し、満杯でないページが返った時点で打ち切ります。
func (c *Client) ListCommits(ctx context.Context, repo string, since, until time.Time) ([]Commit, error) {
	var all []Commit
	for page := 1; ; page++ {
		batch, err := c.listCommitsPage(ctx, repo, since, until, page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			break
		}
	}
	return all, nil
}

func (c *Client) listCommitsPage(ctx context.Context, repo string, since, until time.Time, page int) ([]Commit, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/commits", c.baseURL, repo)

	query := url.Values{}
	query.Set("since", since.UTC().Format(time.RFC3339))
	query.Set("until", until.UTC().Format(time.RFC3339))
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("githubapi: リクエストの構築に失敗しました: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("githubapi: コミット一覧の取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	var batch []Commit
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("githubapi: レスポンスJSONのパースに失敗しました: %w", err)
	}
	return batch, nil
}
