package domain

// Language is a supported UI and coaching language.
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// ParseLanguage maps a request-supplied code onto a supported language.
// Unrecognized or empty codes default to English.
func ParseLanguage(code string) Language {
	switch Language(code) {
	case LangEnglish, LangChinese:
		return Language(code)
	default:
		return LangEnglish
	}
}

// PromptLabel is the language name used in the system prompt directive.
func (l Language) PromptLabel() string {
	if l == LangChinese {
		return "Chinese"
	}
	return "English"
}

// Label is the human-readable language name shown in the UI.
func (l Language) Label() string {
	if l == LangChinese {
		return "中文"
	}
	return "English"
}
