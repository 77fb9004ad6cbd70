package interviewer

import "errors"

// Ошибки сервиса; API сопоставляет их с HTTP статусами через errors.Is
var (
	ErrNotFound      = errors.New("сессия не найдена")
	ErrValidation    = errors.New("некорректный запрос")
	ErrInvalidState  = errors.New("действие недоступно в текущем состоянии сессии")
	ErrCountMismatch = errors.New("количество вопросов и ответов не совпадает")
)

// Коды ошибок в теле ответа API
const (
	CodeNotFound      = "not_found"
	CodeValidation    = "validation"
	CodeInvalidState  = "invalid_state"
	CodeCountMismatch = "count_mismatch"
)

var errorCodes = []struct {
	code string
	err  error
}{
	{CodeNotFound, ErrNotFound},
	{CodeValidation, ErrValidation},
	{CodeInvalidState, ErrInvalidState},
	{CodeCountMismatch, ErrCountMismatch},
}

// ErrorCode возвращает код ошибки сервиса или "" для прочих ошибок
func ErrorCode(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// ErrorForCode возвращает ошибку сервиса по коду из ответа API
func ErrorForCode(code string) error {
	for _, c := range errorCodes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}
