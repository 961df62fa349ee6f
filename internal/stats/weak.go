package stats

import (
	"cmp"
	"slices"

	"github.com/verte-zerg/speedtype/internal/model"
)

// WeakChars returns up to top characters with the lowest accuracy, or all of
// them when top <= 0. Characters never mistyped are not weak.
func WeakChars(aggs []model.CharAggregate, top int) []string {
	missed := slices.DeleteFunc(slices.Clone(aggs), func(a model.CharAggregate) bool {
		return a.Incorrect == 0
	})
	slices.SortFunc(missed, byAccuracy)
	if top > 0 && top < len(missed) {
		missed = missed[:top]
	}
	out := make([]string, len(missed))
	for i, a := range missed {
		out[i] = a.Char
	}
	return out
}

// byAccuracy orders aggregates from least to most accurate, then by character.
func byAccuracy(a, b model.CharAggregate) int {
	if c := cmp.Compare(accuracy(a), accuracy(b)); c != 0 {
		return c
	}
	return cmp.Compare(a.Char, b.Char)
}

func accuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1
	}
	return float64(agg.Correct) / float64(total)
}
