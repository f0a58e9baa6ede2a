package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tourbook/config"
	"tourbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CounterStore tracks windowed attempt counts per key. Production can
// swap in the Redis implementation without touching calling code.
type CounterStore interface {
	// Incr bumps the counter for key, starting a new window if the
	// previous one elapsed, and reports the count and window reset time.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

type windowEntry struct {
	count   int64
	startAt time.Time
}

// MemoryCounterStore is a mutex-guarded in-process store. Counts are
// lost on restart, which is acceptable for a defense-in-depth layer.
type MemoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{entries: make(map[string]*windowEntry)}
}

func (s *MemoryCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || now.Sub(entry.startAt) >= window {
		entry = &windowEntry{startAt: now}
		s.entries[key] = entry
	}
	entry.count++
	return entry.count, entry.startAt.Add(window), nil
}

// RedisCounterStore shares counters across instances via INCR+EXPIRE.
type RedisCounterStore struct {
	Client *redis.Client
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	count, err := s.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, err
	}
	if count == 1 {
		if err := s.Client.Expire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, err
		}
		return count, time.Now().Add(window), nil
	}
	ttl, err := s.Client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return count, time.Now().Add(ttl), nil
}

// Policy is one window/threshold pair, supplied by configuration.
type Policy struct {
	Window time.Duration
	Max    int64
}

// Decision is the limiter's answer for one attempt.
type Decision struct {
	Allowed   bool
	Remaining int64
	ResetTime int64 // unix seconds
}

// Limiter applies per-action, per-identity policies over a CounterStore.
type Limiter struct {
	Store CounterStore
}

func NewLimiter(store CounterStore) *Limiter {
	return &Limiter{Store: store}
}

// Allow counts one attempt for (action, identity) and decides it.
// Creation and cancellation use distinct actions so their counters never
// interfere. A store failure fails open: the limiter is defense in
// depth, not a correctness authority.
func (l *Limiter) Allow(ctx context.Context, action, identity string, p Policy) Decision {
	count, resetAt, err := l.Store.Incr(ctx, "rate:"+action+":"+identity, p.Window)
	if err != nil {
		utils.GetLogger().Warn("rate limit store unavailable, allowing request",
			zap.String("action", action), zap.Error(err))
		return Decision{Allowed: true, Remaining: p.Max}
	}
	remaining := p.Max - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= p.Max,
		Remaining: remaining,
		ResetTime: resetAt.Unix(),
	}
}

// RateLimit rejects requests over the policy with 429 and the window
// reset time.
func RateLimit(limiter *Limiter, action string, p Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := getClientIP(c)
		decision := limiter.Allow(c.Request.Context(), action, identity, p)
		if !decision.Allowed {
			utils.GetLogger().Warn("rate limit exceeded",
				zap.String("action", action), zap.String("ip", identity))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "rate_limited",
				"message":   "Too many attempts. Try again later.",
				"resetTime": decision.ResetTime,
			})
			return
		}
		c.Next()
	}
}

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

var limiterStore = &rateLimiterStore{
	limiters: make(map[string]*rate.Limiter),
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[ip]
	if !exists {
		perMin := config.AppConfig.MaxRequestsPerMin
		if perMin <= 0 {
			perMin = 100
		}
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin)
		s.limiters[ip] = limiter
	}
	return limiter
}

// GlobalRateLimit is the coarse per-IP limiter in front of the whole
// router, distinct from the per-action booking limiter above.
func GlobalRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)
		limiter := limiterStore.getLimiter(ip)
		if !limiter.Allow() {
			utils.GetLogger().Warn("global rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Rate limit exceeded. Try again later.",
			})
			return
		}
		c.Next()
	}
}
