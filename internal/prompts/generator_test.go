package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateQuestionsPrompt(t *testing.T) {
	prompt := GenerateQuestionsPrompt("Go Developer", 10)

	assert.Contains(t, prompt, "10 строгих технических вопросов")
	assert.Contains(t, prompt, "позицию Go Developer")
	assert.Contains(t, prompt, "каждый с новой строки")
}

func TestGenerateFeedbackPromptPairsAnswers(t *testing.T) {
	prompt := GenerateFeedbackPrompt("QA", []string{"q1", "q2"}, []string{"a1", "a2"})

	assert.Contains(t, prompt, "ВОПРОС 1: q1\nОТВЕТ КАНДИДАТА: a1")
	assert.Contains(t, prompt, "ВОПРОС 2: q2\nОТВЕТ КАНДИДАТА: a2")
	assert.Contains(t, prompt, "Готов ли кандидат к позиции QA")
	assert.Equal(t, 1, strings.Count(prompt, "ИТОГОВАЯ РЕКОМЕНДАЦИЯ"))
}
