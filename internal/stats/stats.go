// Package stats contains metric calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/verte-zerg/speedtype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints averages and bests for results.
func RenderSummary(w io.Writer, results []model.ResultSummary) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	var totalWPM, totalRaw, totalAcc float64
	best := 0
	for _, r := range results {
		totalWPM += float64(r.WPM)
		totalRaw += float64(r.RawWPM)
		totalAcc += float64(r.Accuracy)
		best = max(best, r.WPM)
	}
	count := float64(len(results))
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %d", len(results)),
		fmt.Sprintf("Avg WPM: %.1f", totalWPM/count),
		fmt.Sprintf("Best WPM: %d", best),
		fmt.Sprintf("Avg Raw WPM: %.1f", totalRaw/count),
		fmt.Sprintf("Avg Accuracy: %.1f%%", totalAcc/count),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurve prints a moving-average WPM sparkline, truncated to the most
// recent width points when width is positive.
func RenderCurve(w io.Writer, results []model.ResultSummary, window, width int) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	for i, r := range results {
		wpms[i] = float64(r.WPM)
	}
	wpms = MovingAverage(wpms, window)
	if width > 0 && len(wpms) > width {
		wpms = wpms[len(wpms)-width:]
	}
	if _, err := fmt.Fprintf(w, "WPM trend (window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[%s]\n\n", Sparkline(wpms)); err != nil {
		return err
	}
	return nil
}

// RenderCharTable prints per-character aggregates, lowest accuracy first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	rows := slices.Clone(aggs)
	slices.SortFunc(rows, byAccuracy)

	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}
	t := newTable(
		column{title: "Char"},
		column{title: "Accuracy", right: true},
		column{title: "Correct", right: true},
		column{title: "Incorrect", right: true},
	)
	for _, r := range rows {
		t.add(r.Char, fmt.Sprintf("%.2f%%", accuracy(r)*100), strconv.Itoa(r.Correct), strconv.Itoa(r.Incorrect))
	}
	return t.write(w)
}

// RenderLeaderboard prints ranked entries.
func RenderLeaderboard(w io.Writer, entries []model.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No results found for the selected criteria.")
		return err
	}
	t := newTable(
		column{title: "#", right: true},
		column{title: "User"},
		column{title: "WPM", right: true},
		column{title: "Accuracy", right: true},
		column{title: "Raw", right: true},
		column{title: "Duration", right: true},
		column{title: "Date"},
	)
	for _, e := range entries {
		user := e.UserID
		if user == "" {
			user = "anonymous"
		}
		t.add(
			strconv.Itoa(e.Rank),
			user,
			strconv.Itoa(e.WPM),
			fmt.Sprintf("%d%%", e.Accuracy),
			strconv.Itoa(e.RawWPM),
			e.Duration.String(),
			e.CreatedAt.Local().Format("2006-01-02"),
		)
	}
	return t.write(w)
}
