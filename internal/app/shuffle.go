package app

import (
	"math/rand"
	"sync"
	"time"

	"trivia-quiz/internal/domain"
)

// Shuffler produces answer orderings with an unbiased Fisher–Yates pass.
type Shuffler struct {
	mu   sync.Mutex
	intn func(n int) int
}

// NewShuffler returns a Shuffler seeded from the current time.
func NewShuffler() *Shuffler {
	return NewShufflerWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewShufflerWithRand uses the given source; rand.Rand is not safe for
// concurrent use so draws are serialized.
func NewShufflerWithRand(rnd *rand.Rand) *Shuffler {
	return &Shuffler{intn: rnd.Intn}
}

// NewShufflerFunc draws indices from intn, which must return a value in
// [0, n). It gives callers a fixed ordering, e.g. an identity shuffle.
func NewShufflerFunc(intn func(n int) int) *Shuffler {
	return &Shuffler{intn: intn}
}

// Shuffle returns the incorrect answers followed by the correct answer,
// permuted in place.
func (s *Shuffler) Shuffle(q domain.Question) []string {
	answers := make([]string, 0, len(q.IncorrectAnswers)+1)
	answers = append(answers, q.IncorrectAnswers...)
	answers = append(answers, q.CorrectAnswer)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(answers) - 1; i > 0; i-- {
		j := s.intn(i + 1)
		answers[i], answers[j] = answers[j], answers[i]
	}
	return answers
}
