package prompt

// Language selects the output-language directive embedded in the prompt.
// The set is fixed; anything unrecognized falls back to the default, which
// matches the language the rule set itself is written in.
type Language string

const (
	LangEnglish            Language = "English"
	LangTraditionalChinese Language = "繁體中文"
	LangJapanese           Language = "日本語"
)

const DefaultLanguage = LangEnglish

var languageDirectives = map[Language]string{
	LangEnglish:            "Write the entire output in English.",
	LangTraditionalChinese: "請用繁體中文輸出全部內容。",
	LangJapanese:           "すべての出力を日本語で書いてください。",
}

// Directive returns the output-language rule for l, defaulting for
// unrecognized values.
func (l Language) Directive() string {
	if d, ok := languageDirectives[l]; ok {
		return d
	}
	return languageDirectives[DefaultLanguage]
}

// ParseLanguage maps a selector string to a Language, tolerating the
// English names of the non-English options. Unknown input maps to the
// default.
func ParseLanguage(s string) Language {
	switch s {
	case string(LangEnglish), "english":
		return LangEnglish
	case string(LangTraditionalChinese), "zh-TW", "traditional-chinese":
		return LangTraditionalChinese
	case string(LangJapanese), "ja", "japanese":
		return LangJapanese
	}
	return DefaultLanguage
}
