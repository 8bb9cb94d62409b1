package model

type Language string

const (
	LanguageEN Language = "en"
	LanguageRU Language = "ru"
)

// Toggle returns the other supported language.
func (l Language) Toggle() Language {
	if l == LanguageEN {
		return LanguageRU
	}
	return LanguageEN
}

func (l Language) Valid() bool {
	return l == LanguageEN || l == LanguageRU
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other supported theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}
