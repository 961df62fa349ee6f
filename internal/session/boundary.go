package session

// enforceWordBoundary drops a trailing space unless the word it closes
// matches the passage word at the same position. Only the word being
// completed is checked; earlier words are not revalidated. Every space
// counts as a separator, so leading and repeated spaces are never accepted.
func enforceWordBoundary(value []rune, words []string) []rune {
	n := len(value)
	if n == 0 || value[n-1] != ' ' {
		return value
	}
	prefix := value[:n-1]
	index := 0
	start := 0
	for i, r := range prefix {
		if r == ' ' {
			index++
			start = i + 1
		}
	}
	if index < len(words) && string(prefix[start:]) == words[index] {
		return value
	}
	return prefix
}
