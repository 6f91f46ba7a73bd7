// Package cache implements the tiered, time-bounded key/value store used by
// the resolution pipeline, including the approximate-key lookup that lets a
// near-identical prompt reuse a prior result.
package cache

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agext/levenshtein"
	"go.uber.org/zap"
)

// Tier identifies one of the TTL buckets.
type Tier string

const (
	TierShort  Tier = "short"  // ~5 minutes
	TierMedium Tier = "medium" // ~1 hour
	TierLong   Tier = "long"   // ~24 hours
)

// DefaultTTLs holds the per-tier lifetimes.
var DefaultTTLs = map[Tier]time.Duration{
	TierShort:  5 * time.Minute,
	TierMedium: time.Hour,
	TierLong:   24 * time.Hour,
}

type entry struct {
	payload   any
	expiresAt time.Time
}

type container struct {
	mu      sync.Mutex
	entries map[string]entry
}

// Service is a tiered TTL cache. Each tier has its own lock; there is no
// cross-tier ordering constraint.
type Service struct {
	tiers map[Tier]*container
	ttls  map[Tier]time.Duration

	nowFunc func() time.Time // injectable for TTL tests
}

// New creates a cache service with the default tier TTLs.
func New() *Service {
	return NewWithTTLs(DefaultTTLs)
}

// NewWithTTLs creates a cache service with custom tier TTLs; tiers missing
// from ttls fall back to the defaults.
func NewWithTTLs(ttls map[Tier]time.Duration) *Service {
	s := &Service{
		tiers:   make(map[Tier]*container, 3),
		ttls:    make(map[Tier]time.Duration, 3),
		nowFunc: time.Now,
	}
	for tier, def := range DefaultTTLs {
		s.tiers[tier] = &container{entries: make(map[string]entry)}
		if ttl, ok := ttls[tier]; ok && ttl > 0 {
			s.ttls[tier] = ttl
		} else {
			s.ttls[tier] = def
		}
	}
	return s
}

// WithNow fixes the cache clock for testing.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.nowFunc = now
	return s
}

// normalize degrades an unknown tier to medium with a warning; it never errors.
func (s *Service) normalize(tier Tier) Tier {
	if _, ok := s.tiers[tier]; !ok {
		zap.L().Warn("unknown cache tier, using medium", zap.String("tier", string(tier)))
		return TierMedium
	}
	return tier
}

// Get returns the payload for key in the given tier. An entry whose expiry
// has passed counts as a miss and is evicted at read time.
func (s *Service) Get(key string, tier Tier) (any, bool) {
	c := s.tiers[s.normalize(tier)]
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if s.nowFunc().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.payload, true
}

// Set stores payload under key, overwriting unconditionally and recomputing
// the expiry from the tier TTL.
func (s *Service) Set(key string, payload any, tier Tier) {
	t := s.normalize(tier)
	c := s.tiers[t]
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{payload: payload, expiresAt: s.nowFunc().Add(s.ttls[t])}
}

// Delete removes key from the given tier.
func (s *Service) Delete(key string, tier Tier) {
	c := s.tiers[s.normalize(tier)]
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// DeleteAll removes key from every tier.
func (s *Service) DeleteAll(key string) {
	for _, c := range s.tiers {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
	}
}

// FindSimilar scans the tier for the unexpired key most similar to prefix and
// returns its payload when the similarity ratio meets threshold. Only keys
// sharing prefix's first underscore-delimited segment are considered. Ties on
// equal similarity resolve to the lexicographically smallest key, so results
// are deterministic.
func (s *Service) FindSimilar(prefix string, threshold float64, tier Tier) (any, bool) {
	c := s.tiers[s.normalize(tier)]
	c.mu.Lock()
	defer c.mu.Unlock()

	segment := firstSegment(prefix)
	now := s.nowFunc()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bestRatio := -1.0
	var bestKey string
	for _, k := range keys {
		if firstSegment(k) != segment {
			continue
		}
		e := c.entries[k]
		if now.After(e.expiresAt) {
			continue
		}
		ratio := levenshtein.Similarity(prefix, k, nil)
		if ratio >= threshold && ratio > bestRatio {
			bestRatio = ratio
			bestKey = k
		}
	}

	if bestRatio < 0 {
		return nil, false
	}
	return c.entries[bestKey].payload, true
}

// CleanExpired sweeps all tiers and returns the number of evicted entries.
// Background hygiene only; Get already expires lazily.
func (s *Service) CleanExpired() int {
	now := s.nowFunc()
	removed := 0
	for _, c := range s.tiers {
		c.mu.Lock()
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
				removed++
			}
		}
		c.mu.Unlock()
	}
	return removed
}

// Len returns the number of live entries in a tier (expired entries still
// pending eviction included).
func (s *Service) Len(tier Tier) int {
	c := s.tiers[s.normalize(tier)]
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// firstSegment returns the purpose prefix of a key: everything before the
// first underscore or colon, whichever comes first.
func firstSegment(key string) string {
	if i := strings.IndexAny(key, "_:"); i >= 0 {
		return key[:i]
	}
	return key
}

// Key builds a cache key following the stable scheme
// "<purpose>:<normalized>:<gender>:<budget>". The variable component is
// lower-cased and whitespace-trimmed; other collaborators rely on this shape.
func Key(purpose, variable, gender string, budget float64) string {
	return purpose + ":" + strings.ToLower(strings.TrimSpace(variable)) + ":" +
		strings.ToLower(strings.TrimSpace(gender)) + ":" + formatBudget(budget)
}

func formatBudget(budget float64) string {
	if budget <= 0 {
		return "any"
	}
	return strconv.FormatFloat(budget, 'f', -1, 64)
}
