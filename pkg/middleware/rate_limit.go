package middleware

import (
	"net/http"
	"sync"
	"time"

	"seatwise/pkg/logger"
)

// ContactExtractor pulls the guest contact key (phone or email) a submission
// is rate limited by.
type ContactExtractor func(r *http.Request) string

type ContactRateLimiter struct {
	mu        sync.RWMutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor ContactExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewContactRateLimiter(limit int, window time.Duration, extractor ContactExtractor, log *logger.Logger) *ContactRateLimiter {
	limiter := &ContactRateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *ContactRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for contact, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, contact)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *ContactRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *ContactRateLimiter) Allow(contact string) bool {
	if contact == "" {
		return true
	}

	now := time.Now()

	rl.mu.RLock()
	timestamps := rl.requests[contact]
	rl.mu.RUnlock()

	valid := make([]time.Time, 0, len(timestamps)+1)
	for _, ts := range timestamps {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		return false
	}

	valid = append(valid, now)

	rl.mu.Lock()
	rl.requests[contact] = valid
	rl.mu.Unlock()

	return true
}

func ContactRateLimit(limiter *ContactRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contact := ""
			if limiter.extractor != nil {
				contact = limiter.extractor(r)
			}

			if contact == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(contact) {
				rejectRateLimited(w, limiter.log, r, contact)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectRateLimited(w http.ResponseWriter, log *logger.Logger, r *http.Request, contact string) {
	requestID := ""
	if rid := r.Context().Value(RequestIDKey); rid != nil {
		if id, ok := rid.(string); ok {
			requestID = id
		}
	}

	log.Warn("Rate limit exceeded",
		"request_id", requestID,
		"contact", contact,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
}

// DefaultContactExtractor reads the contact key the booking form echoes into a
// header, so limiting happens before the body is parsed.
func DefaultContactExtractor(r *http.Request) string {
	if phone := r.Header.Get("X-Contact-Phone"); phone != "" {
		return phone
	}
	return r.Header.Get("X-Contact-Email")
}
