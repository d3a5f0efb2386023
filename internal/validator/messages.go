package validator

import "fmt"

// Locale selects the message catalog.
type Locale string

const (
	LocaleEnglish  Locale = "en"
	LocaleJapanese Locale = "ja"
)

type catalog struct {
	missingStart  func(id string) string
	missingTarget func(id string) string
	selfLoop      string
	orphan        string
}

var catalogs = map[Locale]catalog{
	LocaleEnglish: {
		missingStart:  func(id string) string { return fmt.Sprintf("start node %q does not exist.", id) },
		missingTarget: func(id string) string { return fmt.Sprintf("target node %q does not exist.", id) },
		selfLoop:      "transitions to itself (possible infinite loop).",
		orphan:        "orphaned node, not referenced from any category or node.",
	},
	LocaleJapanese: {
		missingStart:  func(id string) string { return fmt.Sprintf("開始ノード \"%s\" が存在しません。", id) },
		missingTarget: func(id string) string { return fmt.Sprintf("遷移先ノード \"%s\" が存在しません。", id) },
		selfLoop:      "自分自身に遷移しています（無限ループの可能性）。",
		orphan:        "どのカテゴリ/ノードからも参照されていない孤立したノードです。",
	},
}

// ParseLocale maps a config value to a Locale, falling back to English.
func ParseLocale(s string) Locale {
	if _, ok := catalogs[Locale(s)]; ok {
		return Locale(s)
	}
	return LocaleEnglish
}
