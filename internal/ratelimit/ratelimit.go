package ratelimit

import (
	"sync"
	"time"
)

// Limiter enforces per-client sliding-window limits on public intake
// endpoints (inquiry forms, event tracking). Keys are client IPs.
type Limiter struct {
	requestsPerMinute int
	requestsPerHour   int
	enabled           bool

	windows map[string]*clientWindow
	mu      sync.Mutex
}

type clientWindow struct {
	minute []time.Time
	hour   []time.Time
}

// NewLimiter creates a limiter with the given per-client limits
func NewLimiter(requestsPerMinute, requestsPerHour int, enabled bool) *Limiter {
	return &Limiter{
		requestsPerMinute: requestsPerMinute,
		requestsPerHour:   requestsPerHour,
		enabled:           enabled,
		windows:           make(map[string]*clientWindow),
	}
}

// Allow reports whether the client identified by key may proceed, and
// records the request when it may.
func (l *Limiter) Allow(key string) bool {
	if !l.enabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok {
		w = &clientWindow{}
		l.windows[key] = w
	}

	w.minute = filterTimes(w.minute, now.Add(-1*time.Minute))
	w.hour = filterTimes(w.hour, now.Add(-1*time.Hour))

	if l.requestsPerMinute > 0 && len(w.minute) >= l.requestsPerMinute {
		return false
	}
	if l.requestsPerHour > 0 && len(w.hour) >= l.requestsPerHour {
		return false
	}

	w.minute = append(w.minute, now)
	w.hour = append(w.hour, now)

	// Drop idle clients so the map does not grow without bound
	if len(l.windows) > 10000 {
		for k, cw := range l.windows {
			if len(cw.hour) == 0 {
				delete(l.windows, k)
			}
		}
	}

	return true
}

// filterTimes keeps only times after the cutoff
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

// Stats contains limiter statistics
type Stats struct {
	Enabled        bool `json:"enabled"`
	TrackedClients int  `json:"tracked_clients"`
	LimitPerMinute int  `json:"limit_per_minute"`
	LimitPerHour   int  `json:"limit_per_hour"`
}

// GetStats returns current limiter statistics
func (l *Limiter) GetStats() Stats {
	if !l.enabled {
		return Stats{Enabled: false}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return Stats{
		Enabled:        true,
		TrackedClients: len(l.windows),
		LimitPerMinute: l.requestsPerMinute,
		LimitPerHour:   l.requestsPerHour,
	}
}

// Reset clears all tracked clients (useful for testing)
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows = make(map[string]*clientWindow)
}
