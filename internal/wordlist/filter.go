package wordlist

// Keep reports whether word is usable in a passage: lowercase ASCII letters
// only, so every passage character can be typed on a plain US layout.
func Keep(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}

// Clean drops unusable and repeated words, keeping first occurrences in order.
func Clean(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !Keep(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
