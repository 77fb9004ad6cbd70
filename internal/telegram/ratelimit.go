package telegram

import (
	"sync"
	"time"
)

// RateLimiter ограничивает число сообщений от пользователя в скользящем окне
type RateLimiter struct {
	requests map[int64][]time.Time
	mutex    sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (rl *RateLimiter) IsAllowed(userID int64) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()

	var valid []time.Time
	for _, t := range rl.requests[userID] {
		if now.Sub(t) < rl.window {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[userID] = valid
		return false
	}

	rl.requests[userID] = append(valid, now)
	return true
}

// Cleanup удаляет пользователей без запросов в текущем окне
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for userID, requests := range rl.requests {
		if len(requests) == 0 || now.Sub(requests[len(requests)-1]) >= rl.window {
			delete(rl.requests, userID)
		}
	}
}
