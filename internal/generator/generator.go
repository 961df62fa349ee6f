// Package generator builds typing passages.
package generator

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/speedtype/internal/model"
)

const (
	wordsPerSecond = 3
	minWords       = 50
)

// ErrEmptyVocabulary is returned when a generator is built without words.
var ErrEmptyVocabulary = errors.New("vocabulary is empty")

// Generator produces passages from a fixed vocabulary.
type Generator struct {
	rnd   *rand.Rand
	words []string
}

// New returns a Generator seeded with the current time.
func New(words []string) (*Generator, error) {
	return NewWithSeed(words, time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(words []string, seed int64) (*Generator, error) {
	if len(words) == 0 {
		return nil, ErrEmptyVocabulary
	}
	own := make([]string, len(words))
	copy(own, words)
	return &Generator{rnd: rand.New(rand.NewSource(seed)), words: own}, nil
}

// WordCount returns how many words a passage for d contains.
func WordCount(d model.Duration) int {
	n := d.Seconds() * wordsPerSecond
	if n < minWords {
		return minWords
	}
	return n
}

// Generate builds a passage sized to d from a freshly shuffled cycle of the
// vocabulary.
func (g *Generator) Generate(d model.Duration) string {
	return strings.Join(g.Words(WordCount(d)), " ")
}

// Words returns count words cycling over one uniform shuffle of the vocabulary.
func (g *Generator) Words(count int) []string {
	shuffled := make([]string, len(g.words))
	copy(shuffled, g.words)
	g.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, shuffled[i%len(shuffled)])
	}
	return result
}
