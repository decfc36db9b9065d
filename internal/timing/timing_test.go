package timing

import (
	"errors"
	"testing"
	"time"
)

func TestMeasure_CoversCall(t *testing.T) {
	elapsed, err := Measure(func() error {
		time.Sleep(20 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if elapsed.Duration() < 20*time.Millisecond {
		t.Errorf("expected at least 20ms, got %v", elapsed.Duration())
	}
}

func TestMeasure_ReturnsErrorWithElapsed(t *testing.T) {
	boom := errors.New("boom")

	elapsed, err := Measure(func() error {
		time.Sleep(time.Millisecond)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if elapsed.Seconds() <= 0 {
		t.Errorf("expected positive elapsed time, got %v", elapsed)
	}
}

func TestMeasure_NoopIsNonNegative(t *testing.T) {
	elapsed, err := Measure(func() error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed.Seconds() < 0 {
		t.Errorf("expected non-negative elapsed time, got %v", elapsed.Seconds())
	}
}

func TestElapsed_String(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0.0000"},
		{1234567 * time.Microsecond, "1.2346"},
		{60 * time.Microsecond, "0.0001"},
		{-time.Second, "0.0000"},
	}

	for _, tt := range tests {
		if got := Elapsed(tt.in).String(); got != tt.want {
			t.Errorf("Elapsed(%v).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}
