package stats

import (
	"testing"

	"github.com/verte-zerg/speedtype/internal/model"
)

func TestWeakChars(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "a", Correct: 9, Incorrect: 1},
		{Char: "b", Correct: 1, Incorrect: 1},
		{Char: "c", Correct: 5, Incorrect: 0},
		{Char: "d", Correct: 3, Incorrect: 1},
	}
	got := WeakChars(aggs, 2)
	if len(got) != 2 || got[0] != "b" || got[1] != "d" {
		t.Fatalf("unexpected weak chars: %v", got)
	}
	all := WeakChars(aggs, 0)
	if len(all) != 3 {
		t.Fatalf("expected every char with mistakes, got %v", all)
	}
}
