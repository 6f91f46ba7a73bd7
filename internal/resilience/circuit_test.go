package resilience

import (
	"testing"
	"time"
)

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewBreaker("test", 3, time.Minute)

	for i := 0; i < 2; i++ {
		b.RecordFailure()
		if !b.Allow() {
			t.Fatalf("breaker open after %d failures, threshold is 3", i+1)
		}
	}

	b.RecordFailure()
	if b.Allow() {
		t.Error("breaker should be open after reaching threshold")
	}
}

func TestBreaker_ProbeAfterCooldown(t *testing.T) {
	now := time.Now()
	b := NewBreaker("test", 1, 30*time.Second).WithNow(func() time.Time { return now })

	b.RecordFailure()
	if b.Allow() {
		t.Fatal("breaker should be open")
	}

	now = now.Add(31 * time.Second)
	if !b.Allow() {
		t.Fatal("breaker should allow a probe after cooldown")
	}
	// Probe consumed; next call within the new cooldown window is rejected.
	if b.Allow() {
		t.Error("second call before probe outcome should be rejected")
	}
}

func TestBreaker_SuccessResets(t *testing.T) {
	b := NewBreaker("test", 2, time.Minute)
	b.RecordFailure()
	b.RecordFailure()
	if b.Allow() {
		t.Fatal("breaker should be open")
	}

	b.RecordSuccess()
	if !b.Allow() {
		t.Error("breaker should close after a success")
	}
}
