package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// spamControl mirrors the original cooldown mapping: 10 commands per 12
// seconds per user, with an auto-ban after 5 consecutive strikes.
const (
	spamRate     = 10
	spamWindow   = 12 * time.Second
	spamAutoBan  = 5
	spamMaxUsers = 8192
)

type spamControl struct {
	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	strikes  map[string]int
	maxUsers int
}

func newSpamControl() *spamControl {
	return &spamControl{
		buckets:  make(map[string]*rate.Limiter),
		strikes:  make(map[string]int),
		maxUsers: spamMaxUsers,
	}
}

// check consumes one event for the user. It reports whether the event is
// spam, and whether the user has struck out and should be auto-blocked.
func (s *spamControl) check(userID string) (spamming, autoblock bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.buckets[userID]
	if !ok {
		if len(s.buckets) >= s.maxUsers {
			// crude pressure valve; spammers will re-enter quickly anyway
			s.buckets = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rate.Every(spamWindow/spamRate), spamRate)
		s.buckets[userID] = limiter
	}

	if limiter.Allow() {
		delete(s.strikes, userID)
		return false, false
	}

	s.strikes[userID]++
	if s.strikes[userID] >= spamAutoBan {
		delete(s.strikes, userID)
		return true, true
	}
	return true, false
}
