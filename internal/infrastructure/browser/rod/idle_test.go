package rod

import (
	"context"
	"testing"
	"time"
)

func TestWaitQuiet_StaysBusy(t *testing.T) {
	busy := func() int { return 1 }
	if waitQuiet(context.Background(), busy, 50*time.Millisecond, 200*time.Millisecond, 10*time.Millisecond) {
		t.Fatal("permanently busy page must time out")
	}
}

func TestWaitQuiet_ImmediatelyIdle(t *testing.T) {
	busy := func() int { return 0 }
	start := time.Now()
	if !waitQuiet(context.Background(), busy, 50*time.Millisecond, time.Second, 10*time.Millisecond) {
		t.Fatal("idle page must report idle")
	}
	if time.Since(start) < 50*time.Millisecond {
		t.Fatal("idle requires the full quiet window, not a single sample")
	}
}

func TestWaitQuiet_SingleZeroBetweenBurstsDoesNotCount(t *testing.T) {
	// busy, one zero sample, busy again for a while, then settled.
	samples := []int{1, 0, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	i := 0
	busy := func() int {
		v := samples[len(samples)-1]
		if i < len(samples) {
			v = samples[i]
			i++
		}
		return v
	}

	if !waitQuiet(context.Background(), busy, 40*time.Millisecond, time.Second, 10*time.Millisecond) {
		t.Fatal("page settles eventually, must report idle")
	}
	// The lone zero at sample 1 must not have satisfied the window: at least
	// the burst after it has to have been observed.
	if i < 6 {
		t.Fatalf("idle reported after %d samples; the window must restart on non-zero", i)
	}
}

func TestWaitQuiet_ContextCancelStopsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	busy := func() int { return 1 }
	if waitQuiet(ctx, busy, time.Second, 10*time.Second, 10*time.Millisecond) {
		t.Fatal("cancelled context must stop the wait")
	}
}
