// Package i18n is the single lookup table for user-facing strings. Only the
// presentation layer consults it; the core returns structured codes.
package i18n

import (
	"student-manager/internal/model"
)

type Key string

const (
	KeyTitle          Key = "title"
	KeySwitchLanguage Key = "switch_language"
	KeySwitchTheme    Key = "switch_theme"
	KeyAddStudent     Key = "add_student"
	KeyEdit           Key = "edit"
	KeyDelete         Key = "delete"
	KeyCancel         Key = "cancel"
	KeySave           Key = "save"
	KeyName           Key = "name"
	KeyEmail          Key = "email"
	KeyAge            Key = "age"

	KeyNameRequired  Key = "name_required"
	KeyEmailRequired Key = "email_required"
	KeyEmailInvalid  Key = "email_email"
	KeyAgeRequired   Key = "age_required"
)

var messages = map[model.Language]map[Key]string{
	model.LanguageEN: {
		KeyTitle:          "Student Management",
		KeySwitchLanguage: "Switch to Russian",
		KeySwitchTheme:    "Dark Theme",
		KeyAddStudent:     "Add Student",
		KeyEdit:           "Edit",
		KeyDelete:         "Delete",
		KeyCancel:         "Cancel",
		KeySave:           "Save",
		KeyName:           "Name",
		KeyEmail:          "Email",
		KeyAge:            "Age",
		KeyNameRequired:   "Name is required!",
		KeyEmailRequired:  "Email is required!",
		KeyEmailInvalid:   "Email is invalid!",
		KeyAgeRequired:    "Age is required!",
	},
	model.LanguageRU: {
		KeyTitle:          "Управление студентами",
		KeySwitchLanguage: "Переключиться на английский",
		KeySwitchTheme:    "Dark Theme",
		KeyAddStudent:     "Добавить студента",
		KeyEdit:           "Редактировать",
		KeyDelete:         "Удалить",
		KeyCancel:         "Отмена",
		KeySave:           "Сохранить",
		KeyName:           "Имя",
		KeyEmail:          "Электронная почта",
		KeyAge:            "Возраст",
		KeyNameRequired:   "Имя обязательно!",
		KeyEmailRequired:  "Электронная почта обязательна!",
		KeyEmailInvalid:   "Недопустимая электронная почта!",
		KeyAgeRequired:    "Возраст обязателен!",
	},
}

// The theme button names the theme it switches to. It stays in English in
// both languages; the switch_theme entries above hold the light-theme label.
var themeLabels = map[model.Theme]string{
	model.ThemeLight: "Dark Theme",
	model.ThemeDark:  "Light Theme",
}

// T returns the string for key in lang, or the key itself if none exists.
func T(lang model.Language, key Key) string {
	if msg, ok := messages[lang][key]; ok {
		return msg
	}
	return string(key)
}

// Labels returns every UI string for lang, including the theme button label
// for the current theme.
func Labels(lang model.Language, theme model.Theme) map[Key]string {
	table := messages[lang]
	labels := make(map[Key]string, len(table)+1)
	for k, v := range table {
		labels[k] = v
	}
	if label, ok := themeLabels[theme]; ok {
		labels[KeySwitchTheme] = label
	}
	return labels
}
