package interviewer

// StartRequest запрос на создание сессии
type StartRequest struct {
	Start    bool   `json:"start"`
	UserID   string `json:"user_id,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// StartResult ответ на создание сессии
type StartResult struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// PositionRequest запрос на выбор позиции
type PositionRequest struct {
	SessionID string `json:"session_id"`
	Position  string `json:"position"`
	UserID    string `json:"user_id,omitempty"`
}

// PositionResult первый вопрос собеседования
type PositionResult struct {
	Question        string `json:"question"`
	CurrentQuestion int    `json:"current_question"`
	TotalQuestions  int    `json:"total_questions"`
	Position        string `json:"position"`
}

// AnswerRequest ответ кандидата на текущий вопрос.
// UserID принимается для совместимости клиентов и не используется.
type AnswerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
	UserID    string `json:"user_id,omitempty"`
}

// AnswerResult следующий вопрос или итог собеседования.
// CurrentQuestion нумеруется с 1.
type AnswerResult struct {
	Question          string `json:"question,omitempty"`
	CurrentQuestion   int    `json:"current_question,omitempty"`
	TotalQuestions    int    `json:"total_questions"`
	InterviewComplete bool   `json:"interview_complete"`
	Feedback          string `json:"feedback,omitempty"`
	FeedbackError     string `json:"feedback_error,omitempty"`
	Position          string `json:"position"`
}
