package repos

import "context"

// StaticService serves a fixed profile and repository list. It backs
// tests and local development when no GitHub token is configured.
type StaticService struct {
	profile Profile
	repos   []Repo
}

var _ Service = (*StaticService)(nil)

// NewStaticService returns a service seeded with sample data.
func NewStaticService() *StaticService {
	return &StaticService{
		profile: Profile{
			Login:      "aoi-dev",
			Name:       "Aoi Takahashi",
			AvatarURL:  "https://avatars.example.com/u/aoi-dev",
			ProfileURL: "https://github.com/aoi-dev",
		},
		repos: []Repo{
			{Name: "hanko-press", Description: "印鑑プレビューを生成するSVGレンダラ", URL: "https://github.com/aoi-dev/hanko-press", Topics: []string{"svg", "go"}},
			{Name: "kanban-lite", Description: "軽量のかんばんボード", URL: "https://github.com/aoi-dev/kanban-lite", Topics: []string{"productivity"}},
			{Name: "tsukiji-menu", Description: "ランチメニューのスクレイパー", URL: "https://github.com/aoi-dev/tsukiji-menu", Topics: []string{"scraper", "lunch"}},
			{Name: "go-wareki", Description: "和暦変換ライブラリ", URL: "https://github.com/aoi-dev/go-wareki", Topics: []string{"go", "calendar"}},
			{Name: "dotfiles", Description: "", URL: "https://github.com/aoi-dev/dotfiles", Topics: nil},
			{Name: "pixel-diary", Description: "1日1ドット絵の記録アプリ", URL: "https://github.com/aoi-dev/pixel-diary", Topics: []string{"art", "pwa"}},
			{Name: "shiori", Description: "旅のしおりジェネレーター", URL: "https://github.com/aoi-dev/shiori", Topics: []string{"travel"}},
			{Name: "fswatch-ninja", Description: "ファイル監視CLI", URL: "https://github.com/aoi-dev/fswatch-ninja", Topics: []string{"cli", "go"}},
			{Name: "recipe-box", Description: "家庭のレシピ管理", URL: "https://github.com/aoi-dev/recipe-box", Topics: []string{"cooking"}},
			{Name: "synth-practice", Description: "Web Audioの練習帳", URL: "https://github.com/aoi-dev/synth-practice", Topics: []string{"audio", "javascript"}},
			{Name: "ten-key-trainer", Description: "テンキー入力トレーナー", URL: "https://github.com/aoi-dev/ten-key-trainer", Topics: []string{"typing"}},
			{Name: "yama-log", Description: "登山記録のスタティックサイト", URL: "https://github.com/aoi-dev/yama-log", Topics: []string{"hugo", "hiking"}},
		},
	}
}

// Profile returns the canned owner profile.
func (s *StaticService) Profile(_ context.Context) (Profile, error) {
	return s.profile, nil
}

// List returns a copy of the canned repository list.
func (s *StaticService) List(_ context.Context) ([]Repo, error) {
	out := make([]Repo, len(s.repos))
	copy(out, s.repos)
	return out, nil
}
