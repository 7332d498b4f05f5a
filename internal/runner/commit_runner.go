package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-commit-comic/pkg/domain"
	"github.com/shouni/go-commit-comic/pkg/githubapi"
)

// shortHashLen は正規化後の短縮ハッシュの長さなのだ。
const shortHashLen = 7

// mergePrefixes に一致する1行目を持つコミットは題材から除外するのだ。
var mergePrefixes = []string{"Merge pull request", "Merge branch"}

// CommitRunner は、1日分のコミットを取得して正規化するためのインターフェースなのだ。
type CommitRunner interface {
	// Run は指定日のマージ以外のコミットを CommitRecord の列として返すのだ。
	Run(ctx context.Context, date string) ([]domain.CommitRecord, error)
}

// CommitLister は GitHub API からコミット一覧を取得する契約なのだ。
type CommitLister interface {
	ListCommits(ctx context.Context, repo string, since, until time.Time) ([]githubapi.Commit, error)
}

// GitHubCommitRunner は GitHub REST API を使う CommitRunner の実体なのだ。
type GitHubCommitRunner struct {
	lister CommitLister
	repo   string
}

// NewGitHubCommitRunner は、GitHubCommitRunnerの新しいインスタンスを生成して返すのだ。
func NewGitHubCommitRunner(lister CommitLister, repo string) *GitHubCommitRunner {
	return &GitHubCommitRunner{
		lister: lister,
		repo:   repo,
	}
}

// Run は日付から [当日00:00Z, 翌日00:00Z) の期間を計算し、取得・フィルタ・正規化を行うのだ。
func (cr *GitHubCommitRunner) Run(ctx context.Context, date string) ([]domain.CommitRecord, error) {
	since, until, err := domain.DayWindow(date)
	if err != nil {
		return nil, err
	}

	slog.Info("コミットを取得するのだ", "repo", cr.repo, "since", since, "until", until)

	commits, err := cr.lister.ListCommits(ctx, cr.repo, since, until)
	if err != nil {
		return nil, fmt.Errorf("コミットの取得に失敗したのだ: %w", err)
	}

	records := normalizeCommits(commits)
	slog.Info("コミットの正規化が完了したのだ", "fetched", len(commits), "kept", len(records))
	return records, nil
}

// normalizeCommits はマージコミットを除外し、短縮ハッシュ・1行目メッセージ・作者名に正規化するのだ。
func normalizeCommits(commits []githubapi.Commit) []domain.CommitRecord {
	records := make([]domain.CommitRecord, 0, len(commits))
	for _, c := range commits {
		msg, _, _ := strings.Cut(c.Detail.Message, "\n")
		if isMergeMessage(msg) {
			continue
		}

		sha := c.SHA
		if len(sha) > shortHashLen {
			sha = sha[:shortHashLen]
		}

		records = append(records, domain.CommitRecord{
			SHA:     sha,
			Message: msg,
			Author:  c.Detail.Author.Name,
		})
	}
	return records
}

func isMergeMessage(msg string) bool {
	for _, prefix := range mergePrefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
