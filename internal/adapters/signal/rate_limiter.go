package signal

import (
	"sync"
	"time"

	"github.com/dkeye/Lobby/internal/domain"
)

// ChatRateLimiter is a sliding-window limiter keyed by user id, so a user
// with several sockets shares one budget.
type ChatRateLimiter struct {
	mu       sync.Mutex
	history  map[domain.UserID][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

// NewChatRateLimiter allows limit messages per interval. A non-positive
// limit disables limiting.
func NewChatRateLimiter(limit int, interval time.Duration) *ChatRateLimiter {
	return &ChatRateLimiter{
		history:  make(map[domain.UserID][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *ChatRateLimiter) Allow(uid domain.UserID) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	fresh := rl.fresh(rl.history[uid], now)
	if len(fresh) >= rl.limit {
		rl.history[uid] = fresh
		return false
	}
	rl.history[uid] = append(fresh, now)
	return true
}

// Sweep forgets users with no attempt inside the current window.
func (rl *ChatRateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for uid, attempts := range rl.history {
		if fresh := rl.fresh(attempts, now); len(fresh) == 0 {
			delete(rl.history, uid)
		} else {
			rl.history[uid] = fresh
		}
	}
}

func (rl *ChatRateLimiter) fresh(attempts []time.Time, now time.Time) []time.Time {
	windowStart := now.Add(-rl.interval)
	out := attempts[:0]
	for _, t := range attempts {
		if t.After(windowStart) {
			out = append(out, t)
		}
	}
	return out
}
