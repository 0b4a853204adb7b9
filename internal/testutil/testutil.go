package testutil

import (
	"dictee/internal/domain"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestWords creates words with ids "1".."n" from the given texts
func NewTestWords(texts ...string) []domain.Word {
	words := make([]domain.Word, 0, len(texts))
	for i, text := range texts {
		words = append(words, domain.Word{ID: strconv.Itoa(i + 1), Text: text})
	}
	return words
}

// FixedClock returns a clock that always reports t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
