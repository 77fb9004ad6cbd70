package prompts

import (
	"fmt"
	"strings"
)

// GenerateQuestionsPrompt промпт для генерации вопросов собеседования на позицию
func GenerateQuestionsPrompt(position string, count int) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Ты - технический рекрутер. Сгенерируй %d строгих технических вопросов для собеседования на позицию %s.\n", count, position))
	prompt.WriteString("Вопросы должны проверять:\n")
	prompt.WriteString("- Глубину знаний языка программирования и технологий\n")
	prompt.WriteString("- Практический опыт работы\n")
	prompt.WriteString("- Понимание архитектуры и best practices\n")
	prompt.WriteString("- Решение реальных задач\n\n")
	prompt.WriteString("Формат: только вопросы, каждый с новой строки, без номеров, без дополнительного текста.")

	return prompt.String()
}

// GenerateFeedbackPrompt промпт для оценки ответов кандидата.
// Длины questions и answers должны совпадать, это проверяет вызывающий.
func GenerateFeedbackPrompt(position string, questions, answers []string) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Ты - старший технический специалист, проводящий анализ результатов собеседования на позицию %s.\n\n", position))

	prompt.WriteString("ВОПРОСЫ И ОТВЕТЫ КАНДИДАТА:\n")
	for i := range questions {
		prompt.WriteString(fmt.Sprintf("ВОПРОС %d: %s\n", i+1, questions[i]))
		prompt.WriteString(fmt.Sprintf("ОТВЕТ КАНДИДАТА: %s\n\n", answers[i]))
	}

	prompt.WriteString("Проанализируй технические навыки кандидата и дай развернутую оценку по следующим критериям:\n\n")

	prompt.WriteString("1. ТЕХНИЧЕСКАЯ КОМПЕТЕНТНОСТЬ:\n")
	prompt.WriteString("   - Знание языка программирования и технологий\n")
	prompt.WriteString("   - Понимание архитектурных принципов\n")
	prompt.WriteString("   - Опыт решения практических задач\n\n")

	prompt.WriteString("2. СИЛЬНЫЕ СТОРОНЫ:\n")
	prompt.WriteString("   - Конкретные технические навыки, которые выделяют кандидата\n")
	prompt.WriteString("   - Глубина знаний в ключевых областях\n\n")

	prompt.WriteString("3. ОБЛАСТИ ДЛЯ РАЗВИТИЯ:\n")
	prompt.WriteString("   - Конкретные пробелы в знаниях\n")
	prompt.WriteString("   - Навыки, требующие улучшения\n")
	prompt.WriteString("   - Рекомендации по обучению\n\n")

	prompt.WriteString("4. ИТОГОВАЯ РЕКОМЕНДАЦИЯ:\n")
	prompt.WriteString(fmt.Sprintf("   - Готов ли кандидат к позиции %s\n", position))
	prompt.WriteString("   - Конкретные аргументы за и против\n")
	prompt.WriteString("   - Уровень: Junior/Middle/Senior (если применимо)\n\n")

	prompt.WriteString("Будь строгим, объективным и конструктивным. Основывай оценку только на технических ответах.")

	return prompt.String()
}
