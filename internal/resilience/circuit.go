package resilience

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned when a call is rejected because the breaker is
// open. Callers treat it like any other unavailable-provider failure and take
// the fallback path without waiting out retries.
var ErrCircuitOpen = eris.New("provider circuit open")

// Breaker short-circuits calls to a provider that keeps failing, so a dead
// search backend degrades the pipeline to fallback items immediately instead
// of burning the retry budget on every single item.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	failures int
	openedAt time.Time

	nowFunc func() time.Time // injectable for tests
}

// NewBreaker creates a breaker that opens after threshold consecutive
// failures and allows a probe call once cooldown has elapsed.
func NewBreaker(name string, threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{
		name:      name,
		threshold: threshold,
		cooldown:  cooldown,
		nowFunc:   time.Now,
	}
}

// WithNow fixes the breaker's clock for testing.
func (b *Breaker) WithNow(now func() time.Time) *Breaker {
	b.nowFunc = now
	return b
}

// Allow reports whether a call may proceed. When the breaker is open and the
// cooldown has elapsed, a single probe is let through.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.threshold {
		return true
	}
	if b.nowFunc().Sub(b.openedAt) >= b.cooldown {
		// Probe: count it as open until RecordSuccess resets.
		b.openedAt = b.nowFunc()
		return true
	}
	return false
}

// RecordSuccess closes the breaker.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures >= b.threshold {
		zap.L().Info("provider circuit closed", zap.String("provider", b.name))
	}
	b.failures = 0
}

// RecordFailure counts a failed call; only retryable failures should be fed
// here, a malformed response is not a sign the provider is down.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.failures == b.threshold {
		b.openedAt = b.nowFunc()
		zap.L().Warn("provider circuit opened",
			zap.String("provider", b.name),
			zap.Int("consecutive_failures", b.failures),
			zap.Duration("cooldown", b.cooldown),
		)
	}
}
