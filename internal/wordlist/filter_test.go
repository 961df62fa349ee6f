package wordlist

import "testing"

func TestKeep(t *testing.T) {
	if !Keep("hello") {
		t.Fatalf("expected hello to be kept")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op", "two words", "Hello", ""} {
		if Keep(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestCleanDropsDuplicates(t *testing.T) {
	got := Clean([]string{"cat", "co-op", "dog", "cat", "sun"})
	want := []string{"cat", "dog", "sun"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestBuiltinVocabularyIsClean(t *testing.T) {
	if got := Clean(English); len(got) != len(English) {
		t.Fatalf("built-in vocabulary has %d unusable or repeated words", len(English)-len(got))
	}
}
