package risk

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/radieske/lotto-bet-platform-poc/internal/bet-terminal/session"
)

func newTestSet(window time.Duration, fired *atomic.Int32) *debounceSet {
	return newDebounceSet(func(roundID string) *session.Debouncer {
		return session.NewDebouncer(window, func() { fired.Add(1) })
	})
}

func TestDebounceSetCoalescesPerRound(t *testing.T) {
	var fired atomic.Int32
	set := newTestSet(20*time.Millisecond, &fired)
	defer set.stopAll()

	for i := 0; i < 5; i++ {
		set.trigger("ROUND_A")
	}
	time.Sleep(60 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("fires after burst = %d, want 1", got)
	}
	if got := set.len(); got != 1 {
		t.Errorf("debouncers tracked = %d, want 1", got)
	}
}

func TestDebounceSetDropCancelsPendingFire(t *testing.T) {
	var fired atomic.Int32
	set := newTestSet(30*time.Millisecond, &fired)
	defer set.stopAll()

	set.trigger("ROUND_A")
	set.drop("ROUND_A")
	time.Sleep(60 * time.Millisecond)

	if got := fired.Load(); got != 0 {
		t.Errorf("fires after drop = %d, want 0", got)
	}
	if got := set.len(); got != 0 {
		t.Errorf("debouncers tracked after drop = %d, want 0", got)
	}
}

func TestDebounceSetDropEvictsOnlyThatRound(t *testing.T) {
	var fired atomic.Int32
	set := newTestSet(20*time.Millisecond, &fired)
	defer set.stopAll()

	set.trigger("ROUND_A")
	set.trigger("ROUND_B")
	set.drop("ROUND_A")

	if got := set.len(); got != 1 {
		t.Errorf("debouncers tracked = %d, want 1", got)
	}
	time.Sleep(60 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fires = %d, want 1 (only the surviving round)", got)
	}
}

func TestDebounceSetStopAllClears(t *testing.T) {
	var fired atomic.Int32
	set := newTestSet(30*time.Millisecond, &fired)

	set.trigger("ROUND_A")
	set.trigger("ROUND_B")
	set.stopAll()
	time.Sleep(60 * time.Millisecond)

	if got := fired.Load(); got != 0 {
		t.Errorf("fires after stopAll = %d, want 0", got)
	}
	if got := set.len(); got != 0 {
		t.Errorf("debouncers tracked after stopAll = %d, want 0", got)
	}
}
