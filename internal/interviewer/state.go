package interviewer

import "neurohr-interview/internal/storage"

// State этап собеседования, вычисляемый по записи сессии
type State int

const (
	StateAwaitingPosition State = iota
	StateAwaitingAnswer
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateAwaitingPosition:
		return "awaiting_position"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// StateOf определяет этап сессии
func StateOf(session *storage.Session) State {
	switch {
	case session.IsCompleted():
		return StateCompleted
	case len(session.Questions) == 0:
		return StateAwaitingPosition
	default:
		return StateAwaitingAnswer
	}
}
