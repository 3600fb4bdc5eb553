package domain

import "strings"

// ExpandCommand подставляет значения плейсхолдеров в шаблон команды.
//
// Плейсхолдер записывается как {name}. Шаблон никогда не изменяется:
// каждый вызов возвращает свежий срез, поэтому общие шаблоны по
// умолчанию безопасно раздавать участникам.
func ExpandCommand(template []string, vars map[string]string) []string {
	out := make([]string, len(template))
	for i, arg := range template {
		for name, val := range vars {
			arg = strings.ReplaceAll(arg, "{"+name+"}", val)
		}
		out[i] = arg
	}
	return out
}

// ExpandName подставляет плейсхолдеры в шаблон имени файла.
func ExpandName(template string, vars map[string]string) string {
	for name, val := range vars {
		template = strings.ReplaceAll(template, "{"+name+"}", val)
	}
	return template
}
