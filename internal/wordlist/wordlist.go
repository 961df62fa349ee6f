// Package wordlist provides the passage vocabulary.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load returns the built-in vocabulary when path is empty, otherwise the
// cleaned words read from path.
func Load(path string) ([]string, error) {
	if path == "" {
		return Words(), nil
	}
	words, err := LoadWords(path)
	if err != nil {
		return nil, err
	}
	filtered := Clean(words)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("word list %s has no usable words", path)
	}
	return filtered, nil
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
