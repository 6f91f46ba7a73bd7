package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrozen(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := New().WithNow(func() time.Time { return now })
	return s, &now
}

func TestGetSet_RoundTrip(t *testing.T) {
	s, _ := newFrozen(t)
	s.Set("outfit_summer", "payload", TierShort)

	got, ok := s.Get("outfit_summer", TierShort)
	require.True(t, ok)
	assert.Equal(t, "payload", got)
}

func TestGet_ExpiresAfterTTL(t *testing.T) {
	s, now := newFrozen(t)
	s.Set("k", "v", TierShort)

	*now = now.Add(4 * time.Minute)
	_, ok := s.Get("k", TierShort)
	assert.True(t, ok, "entry should survive inside the short TTL")

	*now = now.Add(2 * time.Minute)
	_, ok = s.Get("k", TierShort)
	assert.False(t, ok, "entry should expire past the short TTL")

	// Lazy expiry evicted the entry at read time.
	assert.Equal(t, 0, s.Len(TierShort))
}

func TestTierTTLsDiffer(t *testing.T) {
	s, now := newFrozen(t)
	s.Set("k", "v", TierShort)
	s.Set("k", "v", TierMedium)
	s.Set("k", "v", TierLong)

	*now = now.Add(30 * time.Minute)
	_, short := s.Get("k", TierShort)
	_, medium := s.Get("k", TierMedium)
	_, long := s.Get("k", TierLong)
	assert.False(t, short)
	assert.True(t, medium)
	assert.True(t, long)

	*now = now.Add(2 * time.Hour)
	_, medium = s.Get("k", TierMedium)
	_, long = s.Get("k", TierLong)
	assert.False(t, medium)
	assert.True(t, long)
}

func TestUnknownTierDegradesToMedium(t *testing.T) {
	s, _ := newFrozen(t)
	s.Set("k", "v", Tier("bogus-level"))

	got, ok := s.Get("k", TierMedium)
	require.True(t, ok, "unknown tier should behave as medium")
	assert.Equal(t, "v", got)

	got, ok = s.Get("k", Tier("another-bogus"))
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestSet_OverwritesAndRefreshesExpiry(t *testing.T) {
	s, now := newFrozen(t)
	s.Set("k", "old", TierShort)

	*now = now.Add(4 * time.Minute)
	s.Set("k", "new", TierShort)

	*now = now.Add(4 * time.Minute) // 8m after first set, 4m after second
	got, ok := s.Get("k", TierShort)
	require.True(t, ok, "overwrite should have reset the expiry")
	assert.Equal(t, "new", got)
}

func TestDelete(t *testing.T) {
	s, _ := newFrozen(t)
	s.Set("k", "v", TierShort)
	s.Set("k", "v", TierLong)

	s.Delete("k", TierShort)
	_, ok := s.Get("k", TierShort)
	assert.False(t, ok)
	_, ok = s.Get("k", TierLong)
	assert.True(t, ok)

	s.DeleteAll("k")
	_, ok = s.Get("k", TierLong)
	assert.False(t, ok)
}

func TestFindSimilar_ThresholdRespected(t *testing.T) {
	s, _ := newFrozen(t)
	s.Set("outfit_summer beach party casual", "close", TierMedium)
	s.Set("outfit_completely different thing", "far", TierMedium)

	got, ok := s.FindSimilar("outfit_summer beach party casuals", 0.9, TierMedium)
	require.True(t, ok)
	assert.Equal(t, "close", got)

	// Nothing is within 0.9 of this prefix.
	_, ok = s.FindSimilar("outfit_winter formal office", 0.9, TierMedium)
	assert.False(t, ok)
}

func TestFindSimilar_SegmentPrefilter(t *testing.T) {
	s, _ := newFrozen(t)
	s.Set("concepts_summer beach party", "wrong segment", TierMedium)

	// Same text, different first underscore segment: never considered.
	_, ok := s.FindSimilar("outfit_summer beach party", 0.5, TierMedium)
	assert.False(t, ok)
}

func TestFindSimilar_SkipsExpired(t *testing.T) {
	s, now := newFrozen(t)
	s.Set("outfit_summer beach", "v", TierShort)

	*now = now.Add(10 * time.Minute)
	_, ok := s.FindSimilar("outfit_summer beach", 0.9, TierShort)
	assert.False(t, ok, "expired entries must not fuzzy-match")
}

func TestFindSimilar_DeterministicTieBreak(t *testing.T) {
	s, _ := newFrozen(t)
	// Two keys equidistant from the probe; lexicographically smallest wins.
	s.Set("outfit_ab", "a-side", TierMedium)
	s.Set("outfit_ad", "d-side", TierMedium)

	for i := 0; i < 10; i++ {
		got, ok := s.FindSimilar("outfit_ac", 0.5, TierMedium)
		require.True(t, ok)
		assert.Equal(t, "a-side", got)
	}
}

func TestCleanExpired(t *testing.T) {
	s, now := newFrozen(t)
	s.Set("a", 1, TierShort)
	s.Set("b", 2, TierMedium)
	s.Set("c", 3, TierLong)

	*now = now.Add(2 * time.Hour)
	removed := s.CleanExpired()
	assert.Equal(t, 2, removed) // short and medium expired
	assert.Equal(t, 1, s.Len(TierLong))
}

func TestKey_Scheme(t *testing.T) {
	assert.Equal(t, "outfit:summer gala:female:1200", Key("outfit", "  Summer GALA ", "Female", 1200))
	assert.Equal(t, "outfit:x::any", Key("outfit", "x", "", 0))
	assert.Equal(t, "search:silk dress:女性:89.5", Key("search", "Silk Dress", "女性", 89.5))
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s.Set("outfit_shared", n*1000+j, TierMedium)
				s.Get("outfit_shared", TierMedium)
				s.FindSimilar("outfit_shared", 0.9, TierMedium)
				s.CleanExpired()
			}
		}(i)
	}
	wg.Wait()
}
