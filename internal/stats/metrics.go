package stats

import (
	"math"
	"time"

	"github.com/verte-zerg/speedtype/internal/model"
)

const charsPerWord = 5.0

// Compute returns live metrics for typed against target. A zero start means
// the session has not started and yields model.ZeroMetrics.
func Compute(start, now time.Time, typed, target []rune) model.Metrics {
	if start.IsZero() {
		return model.ZeroMetrics
	}
	minutes := float64(now.Sub(start).Milliseconds()) / 60000.0
	correct := correctChars(typed, target)

	accuracy := 100
	if len(typed) > 0 {
		accuracy = int(math.Round(float64(correct) / float64(len(typed)) * 100))
	}
	return model.Metrics{
		WPM:      perMinute(correct, minutes),
		RawWPM:   perMinute(len(typed), minutes),
		Accuracy: accuracy,
	}
}

func perMinute(chars int, minutes float64) int {
	v := math.Round(float64(chars) / charsPerWord / minutes)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return int(v)
}

func correctChars(typed, target []rune) int {
	n := min(len(typed), len(target))
	correct := 0
	for i := 0; i < n; i++ {
		if typed[i] == target[i] {
			correct++
		}
	}
	return correct
}

// CountCharacters performs the position-by-position accounting of a
// finished test.
func CountCharacters(typed, target []rune) model.CharacterCounts {
	correct := correctChars(typed, target)
	compared := min(len(typed), len(target))
	return model.CharacterCounts{
		Correct:   correct,
		Incorrect: compared - correct,
		Extra:     max(0, len(typed)-len(target)),
		Missed:    max(0, len(target)-len(typed)),
		Total:     len(target),
	}
}

// CharBreakdown aggregates correct and incorrect keystrokes per expected
// non-space character. Untyped positions are not counted.
func CharBreakdown(typed, target []rune) []model.CharStats {
	index := map[rune]int{}
	var out []model.CharStats
	n := min(len(typed), len(target))
	for i := 0; i < n; i++ {
		expected := target[i]
		if expected == ' ' {
			continue
		}
		pos, ok := index[expected]
		if !ok {
			pos = len(out)
			index[expected] = pos
			out = append(out, model.CharStats{Char: string(expected)})
		}
		if typed[i] == expected {
			out[pos].Correct++
		} else {
			out[pos].Incorrect++
		}
	}
	return out
}
