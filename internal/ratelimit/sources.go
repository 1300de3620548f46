package ratelimit

import (
	"strings"
	"sync"
)

// SourceLimiters holds one limiter per site for the whole process.
// All jobs targeting the same site share the same limiter, so concurrent
// jobs cannot exceed the site's configured outbound rate between them.
// The map is passed explicitly into scrapers rather than living in a
// package-level singleton.
type SourceLimiters struct {
	mu       sync.Mutex
	configs  SourceConfigs
	limiters map[string]Limiter
}

// NewSourceLimiters creates the per-site limiter registry. Limiters are
// created lazily on first use and live for the rest of the process.
func NewSourceLimiters(configs SourceConfigs) *SourceLimiters {
	return &SourceLimiters{
		configs:  configs,
		limiters: make(map[string]Limiter),
	}
}

// For returns the limiter for a site, creating it from the site's
// config (or the defaults) on first use. Site tags are matched
// case-insensitively.
func (s *SourceLimiters) For(site string) Limiter {
	key := strings.ToLower(site)

	s.mu.Lock()
	defer s.mu.Unlock()

	if lim, ok := s.limiters[key]; ok {
		return lim
	}

	lim := NewLimiter(s.configs.Get(key))
	s.limiters[key] = lim
	return lim
}

// Config returns the limiter config for a site, falling back to the
// defaults for sites with no entry.
func (s *SourceLimiters) Config(site string) Config {
	return s.configs.Get(strings.ToLower(site))
}
