package domain

import "time"

// MasteryThreshold is the number of consecutive correct answers needed to master a word
const MasteryThreshold = 3

// WordProgress holds practice statistics for one word
type WordProgress struct {
	WordID        string `json:"wordId"`
	CorrectStreak int    `json:"correctStreak"`
	TotalAttempts int    `json:"totalAttempts"`
	TotalCorrect  int    `json:"totalCorrect"`
	LastPracticed int64  `json:"lastPracticed"` // unix milliseconds, 0 when never recorded
	Mastered      bool   `json:"mastered"`
}

// ProgressMap maps word id to its progress record
type ProgressMap map[string]WordProgress

// NewWordProgress returns an empty record for a word that was never attempted
func NewWordProgress(wordID string) WordProgress {
	return WordProgress{WordID: wordID}
}

// Record returns a copy of p updated with one attempt made at the given time
func (p WordProgress) Record(correct bool, at time.Time) WordProgress {
	if correct {
		p.CorrectStreak++
		p.TotalCorrect++
	} else {
		p.CorrectStreak = 0
	}
	p.TotalAttempts++
	p.LastPracticed = at.UnixMilli()
	p.Mastered = p.CorrectStreak >= MasteryThreshold
	return p
}

// LastPracticedAt returns the last practice time, zero if never recorded
func (p WordProgress) LastPracticedAt() time.Time {
	if p.LastPracticed == 0 {
		return time.Time{}
	}
	return time.UnixMilli(p.LastPracticed)
}

// Clone returns an independent copy of the map
func (m ProgressMap) Clone() ProgressMap {
	out := make(ProgressMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
