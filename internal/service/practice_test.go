package service

import (
	"math/rand"
	"testing"

	"dictee/internal/domain"
	"dictee/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSelectForPractice_Sizes(t *testing.T) {
	words := testutil.NewTestWords("un", "deux", "trois", "quatre", "cinq")

	tests := []struct {
		name     string
		words    []domain.Word
		limit    int
		expected int
	}{
		{name: "empty list", words: nil, limit: 3, expected: 0},
		{name: "empty list zero limit", words: []domain.Word{}, limit: 0, expected: 0},
		{name: "zero limit", words: words, limit: 0, expected: 0},
		{name: "negative limit", words: words, limit: -2, expected: 0},
		{name: "limit below size", words: words, limit: 3, expected: 3},
		{name: "limit equals size", words: words, limit: 5, expected: 5},
		{name: "limit above size", words: words, limit: 50, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			selected := SelectForPractice(domain.ProgressMap{}, tt.words, tt.limit, rng)

			assert.NotNil(t, selected)
			assert.Len(t, selected, tt.expected)

			seen := make(map[string]bool)
			for _, w := range selected {
				assert.Contains(t, tt.words, w)
				assert.False(t, seen[w.ID], "duplicate word %s", w.ID)
				seen[w.ID] = true
			}
		})
	}
}

func TestSelectForPractice_Priority(t *testing.T) {
	w1 := domain.Word{ID: "w1", Text: "nouveau"}
	w2 := domain.Word{ID: "w2", Text: "appris"}
	w3 := domain.Word{ID: "w3", Text: "maîtrisé"}

	progress := domain.ProgressMap{
		"w2": {WordID: "w2", CorrectStreak: 1, LastPracticed: 100},
		"w3": {WordID: "w3", CorrectStreak: 3, LastPracticed: 50, Mastered: true},
	}

	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		selected := SelectForPractice(progress, []domain.Word{w3, w2, w1}, 2, rng)

		assert.ElementsMatch(t, []domain.Word{w1, w2}, selected)
	}
}

func TestSelectForPractice_LeastRecentFirst(t *testing.T) {
	words := testutil.NewTestWords("a", "b", "c", "d")
	progress := domain.ProgressMap{
		"1": {WordID: "1", LastPracticed: 400},
		"2": {WordID: "2", LastPracticed: 100},
		"3": {WordID: "3", LastPracticed: 300},
		"4": {WordID: "4"},
	}

	selected := SelectForPractice(progress, words, 2, rand.New(rand.NewSource(7)))

	// "4" has a record without a timestamp and sorts as practiced at 0
	assert.ElementsMatch(t, []domain.Word{words[3], words[1]}, selected)
}

func TestSelectForPractice_MasteredLast(t *testing.T) {
	words := testutil.NewTestWords("a", "b", "c")
	progress := domain.ProgressMap{
		"1": {WordID: "1", Mastered: true, CorrectStreak: 3, LastPracticed: 1},
		"2": {WordID: "2", LastPracticed: 900},
		"3": {WordID: "3", Mastered: true, CorrectStreak: 5, LastPracticed: 2},
	}

	selected := SelectForPractice(progress, words, 2, rand.New(rand.NewSource(3)))

	assert.ElementsMatch(t, []domain.Word{words[1], words[0]}, selected)
}

func TestSelectForPractice_DoesNotModifyInput(t *testing.T) {
	words := testutil.NewTestWords("a", "b", "c", "d")
	original := make([]domain.Word, len(words))
	copy(original, words)
	progress := domain.ProgressMap{"1": {WordID: "1", LastPracticed: 10}}

	SelectForPractice(progress, words, 4, rand.New(rand.NewSource(9)))

	assert.Equal(t, original, words)
}

func TestProgressService_WordsForPractice(t *testing.T) {
	store := new(testutil.MockProgressStore)
	store.On("LoadProgress", int64(1)).Return(domain.ProgressMap{
		"1": {WordID: "1", Mastered: true, CorrectStreak: 3},
	})
	store.On("SaveProgress", int64(1), mock.Anything).Return(nil)

	s := newTestProgressService(store)
	words := testutil.NewTestWords("a", "b")

	selected := s.WordsForPractice(1, words, 1)

	assert.Equal(t, []domain.Word{words[1]}, selected)
}
