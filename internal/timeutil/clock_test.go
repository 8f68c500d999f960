package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	got := clock.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	start := time.Now().Add(-time.Minute)
	if got := clock.Since(start); got < time.Minute {
		t.Errorf("Since = %v, want >= 1m", got)
	}
}

func TestMockClock_Advance(t *testing.T) {
	start := time.Unix(1000, 0)
	clock := NewMockClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}

	clock.Advance(5 * time.Second)
	if got := clock.Since(start); got != 5*time.Second {
		t.Errorf("Since = %v, want 5s", got)
	}
}

func TestMockClock_AutoAdvance(t *testing.T) {
	start := time.Unix(1000, 0)
	clock := NewMockClock(start)
	clock.SetAutoAdvance(time.Second)

	first := clock.Now()
	second := clock.Now()
	if d := second.Sub(first); d != time.Second {
		t.Errorf("consecutive Now() reads %v apart, want 1s", d)
	}
}
