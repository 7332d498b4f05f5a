package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel       = "gemini-3-flash-preview"
	DefaultImageModel  = "gemini-3-pro-image-preview"
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTargetRepo はコミット取得元のリポジトリ（owner/name）のフォールバックなのだ
	DefaultTargetRepo = "shalomer/social-confidence-coach-v2"

	// DefaultOutputDir は合成画像とJSONレコードの保存先なのだ
	DefaultOutputDir = "comic-strips"

	// 画像生成の再試行とペーシングの既定値なのだ
	DefaultImageRetryCount = 3
	DefaultImageRetryWait  = 5 * time.Second
	DefaultPanelInterval   = 2 * time.Second

	// MinStitchPanels を下回ったら実行全体を失敗として扱うのだ
	MinStitchPanels = 2

	// DefaultImageStylePrefix は全パネル共通の画風指示なのだ
	DefaultImageStylePrefix = "Cartoon style, warm tones (coral, gold, cream), bold outlines, simple and clear, medieval fantasy village setting. "
)

// Config はアプリケーション全体の環境設定（APIキーや対象リポジトリ）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string
	ImageStylePrefix string

	// TargetRepo はコミットを取得する owner/name 形式のリポジトリなのだ
	TargetRepo string
	// GitHubToken は任意のAPIトークン。未設定でも致命ではないのだ
	GitHubToken string
	// GitHubRepository は Issue を起票する先。未設定ならパブリッシュはスキップなのだ
	GitHubRepository string

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", DefaultModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		ImageStylePrefix: envutil.GetEnv("IMAGE_STYLE_PREFIX", DefaultImageStylePrefix),
		TargetRepo:       envutil.GetEnv("TARGET_REPO", DefaultTargetRepo),
		GitHubToken:      envutil.GetEnv("GITHUB_TOKEN", ""),
		GitHubRepository: envutil.GetEnv("GITHUB_REPOSITORY", ""),
	}
	return cfg
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// OutputDir は合成画像とJSONレコードの保存先（ローカル or gs://...）なのだ
	OutputDir string // --output-dir

	// AI挙動設定
	AIModel    string // --model: 台本生成用のGeminiモデル
	ImageModel string // --image-model: 画像生成用のGeminiモデル

	// 実行制御
	HTTPTimeout time.Duration // --http-timeout
	NoOpen      bool          // --no-open: 完成画像をビューアで開かないのだ
}
