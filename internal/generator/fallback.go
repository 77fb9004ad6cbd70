package generator

import "strings"

// PositionPlaceholder подставляется названием позиции в запасных вопросах
const PositionPlaceholder = "{position}"

// DefaultFallbackQuestions запасные вопросы на случай недоступности модели
var DefaultFallbackQuestions = []string{
	"Какие основные технологии и фреймворки вы использовали в работе с {position}?",
	"Опишите архитектуру последнего проекта, над которым работали",
	"Как вы обеспечиваете качество и тестирование кода?",
	"Расскажите о самом сложном техническом вызове в вашей карьере",
	"Как вы оптимизируете производительность приложений?",
	"Какие шаблоны проектирования вы чаще всего используете и почему?",
	"Как вы организуете работу с базой данных в своих проектах?",
	"Расскажите о вашем опыте работы с системами контроля версий",
	"Как вы подходите к рефакторингу legacy кода?",
	"Какие методы вы используете для отладки сложных проблем?",
}

// FallbackQuestions подставляет позицию в шаблоны
func FallbackQuestions(templates []string, position string) []string {
	questions := make([]string, len(templates))
	for i, tmpl := range templates {
		questions[i] = strings.ReplaceAll(tmpl, PositionPlaceholder, position)
	}
	return questions
}
