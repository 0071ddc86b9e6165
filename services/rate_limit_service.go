package services

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface defines the contract for rate limiting operations.
type RateLimiterInterface interface {
	// Allow consumes one token for key. When denied, it returns how long
	// until the next token is available.
	Allow(key string) (bool, time.Duration)
}

// RateLimitService keeps one token bucket per key in process memory.
// Buckets idle for longer than idleTTL are dropped on the next sweep.
type RateLimitService struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	lastGC   time.Time
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimitService allows perMinute events per key with the given burst.
func NewRateLimitService(perMinute, burst int) *RateLimitService {
	return &RateLimitService{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

func (s *RateLimitService) Allow(key string) (bool, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	entry, ok := s.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[key] = entry
	}
	entry.lastSeen = now

	r := entry.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (s *RateLimitService) sweep(now time.Time) {
	if now.Sub(s.lastGC) < s.idleTTL {
		return
	}
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > s.idleTTL {
			delete(s.limiters, key)
		}
	}
	s.lastGC = now
}
