package model

import (
	"errors"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	for _, in := range []string{"15", "30s", " 60 ", "120"} {
		if _, err := ParseDuration(in); err != nil {
			t.Fatalf("ParseDuration(%q) failed: %v", in, err)
		}
	}
	for _, in := range []string{"", "10", "abc", "45s"} {
		if _, err := ParseDuration(in); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("ParseDuration(%q): expected ErrInvalidDuration, got %v", in, err)
		}
	}
}

func TestDurationNextWraps(t *testing.T) {
	if got := Duration15.Next(); got != Duration30 {
		t.Fatalf("expected 30s after 15s, got %s", got)
	}
	if got := Duration120.Next(); got != Duration15 {
		t.Fatalf("expected wrap to 15s, got %s", got)
	}
}

func TestParseTimeframe(t *testing.T) {
	tf, err := ParseTimeframe("")
	if err != nil || tf != TimeframeAll {
		t.Fatalf("expected empty to mean all, got %q %v", tf, err)
	}
	if _, err := ParseTimeframe("year"); !errors.Is(err, ErrInvalidTimeframe) {
		t.Fatalf("expected ErrInvalidTimeframe, got %v", err)
	}
}

func TestTimeframeSince(t *testing.T) {
	now := time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)
	if got := TimeframeToday.Since(now); !got.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected today bound: %v", got)
	}
	if got := TimeframeWeek.Since(now); !got.Equal(now.AddDate(0, 0, -7)) {
		t.Fatalf("unexpected week bound: %v", got)
	}
	if got := TimeframeMonth.Since(now); !got.Equal(time.Date(2024, 2, 15, 13, 45, 0, 0, time.UTC)) {
		t.Fatalf("unexpected month bound: %v", got)
	}
	if got := TimeframeAll.Since(now); !got.IsZero() {
		t.Fatalf("expected no bound for all, got %v", got)
	}
}

func TestResultWithUserCopies(t *testing.T) {
	r := Result{WPM: 42}
	owned := r.WithUser("u1")
	if !r.Anonymous() {
		t.Fatalf("original result must stay anonymous")
	}
	if owned.UserID != "u1" || owned.WPM != 42 {
		t.Fatalf("unexpected copy: %+v", owned)
	}
}
