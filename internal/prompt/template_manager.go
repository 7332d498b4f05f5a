package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/go-commit-comic/pkg/domain"
)

//go:embed comic_script.md
var comicScriptPrompt string

// TemplateData は台本生成プロンプトのテンプレートに渡すデータ構造なのだ。
type TemplateData struct {
	CommitCount int
	CommitList  string
}

// Builder は go:embed されたテンプレートから台本生成プロンプトを構築するのだ。
type Builder struct {
	tmpl *template.Template
}

// NewBuilder は埋め込みテンプレートを解析して Builder を返すのだ。
func NewBuilder() (*Builder, error) {
	if comicScriptPrompt == "" {
		return nil, fmt.Errorf("プロンプトテンプレート (go:embed) の読み込みに失敗しました: 内容が空です")
	}

	tmpl, err := template.New("comic_script").Parse(comicScriptPrompt)
	if err != nil {
		return nil, fmt.Errorf("プロンプトテンプレートの解析に失敗しました: %w", err)
	}

	return &Builder{tmpl: tmpl}, nil
}

// Build はコミット一覧を埋め込んだ完成プロンプトを返すのだ。
func (b *Builder) Build(commits []domain.CommitRecord) (string, error) {
	data := TemplateData{
		CommitCount: len(commits),
		CommitList:  FormatCommitList(commits),
	}

	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}
	return sb.String(), nil
}

// FormatCommitList はコミットを `- [sha] message` 形式の箇条書きに整形するのだ。
func FormatCommitList(commits []domain.CommitRecord) string {
	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		lines = append(lines, fmt.Sprintf("- [%s] %s", c.SHA, c.Message))
	}
	return strings.Join(lines, "\n")
}
