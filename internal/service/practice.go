package service

import (
	"math/rand"
	"sort"

	"dictee/internal/domain"
)

// SelectForPractice returns up to limit words, highest priority first, in random order.
//
// Priority: words never attempted, then unmastered words, then mastered words.
// Within the same group the word practiced longest ago comes first.
func SelectForPractice(progress domain.ProgressMap, words []domain.Word, limit int, rng *rand.Rand) []domain.Word {
	if len(words) == 0 || limit <= 0 {
		return []domain.Word{}
	}

	sorted := make([]domain.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		return practiceLess(progress, sorted[i], sorted[j])
	})

	if limit > len(sorted) {
		limit = len(sorted)
	}
	selected := sorted[:limit]

	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected
}

func practiceLess(progress domain.ProgressMap, a, b domain.Word) bool {
	pa, okA := progress[a.ID]
	pb, okB := progress[b.ID]

	if okA != okB {
		return !okA
	}
	if !okA {
		return false
	}
	if pa.Mastered != pb.Mastered {
		return !pa.Mastered
	}
	return pa.LastPracticed < pb.LastPracticed
}
