package service

import (
	"math/rand"
	"sync"
	"time"

	"dictee/internal/domain"
	"dictee/internal/repository"

	"go.uber.org/zap"
)

// ProgressService tracks per-word mastery for every user and picks practice rounds.
// A user's mapping is loaded from the store on first use and written back after
// every change. Write failures are logged and otherwise ignored.
type ProgressService struct {
	store  repository.ProgressStore
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	progress map[int64]domain.ProgressMap
	rng      *rand.Rand
}

// NewProgressService creates a new progress service
func NewProgressService(store repository.ProgressStore, logger *zap.Logger) *ProgressService {
	return &ProgressService{
		store:    store,
		logger:   logger,
		now:      time.Now,
		progress: make(map[int64]domain.ProgressMap),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// userProgress returns the live mapping of a user, mu must be held
func (s *ProgressService) userProgress(userID int64) domain.ProgressMap {
	p, ok := s.progress[userID]
	if !ok {
		p = s.store.LoadProgress(userID)
		if p == nil {
			p = domain.ProgressMap{}
		}
		s.progress[userID] = p
	}
	return p
}

// Progress returns a copy of the user's mapping
func (s *ProgressService) Progress(userID int64) domain.ProgressMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userProgress(userID).Clone()
}

// RecordAttempt updates the word's record with one answer and persists the mapping
func (s *ProgressService) RecordAttempt(userID int64, wordID string, correct bool) domain.WordProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.userProgress(userID)
	existing, ok := p[wordID]
	if !ok {
		existing = domain.NewWordProgress(wordID)
	}
	updated := existing.Record(correct, s.now())
	p[wordID] = updated

	s.persist(userID, p)
	return updated
}

// ResetProgress forgets everything the user has practiced
func (s *ProgressService) ResetProgress(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.progress[userID] = domain.ProgressMap{}
	s.persist(userID, domain.ProgressMap{})
}

// MasteryCount returns how many of words the user has mastered
func (s *ProgressService) MasteryCount(userID int64, words []domain.Word) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.userProgress(userID)
	count := 0
	for _, w := range words {
		if p[w.ID].Mastered {
			count++
		}
	}
	return count
}

// WordsForPractice picks the next round for the user, see SelectForPractice
func (s *ProgressService) WordsForPractice(userID int64, words []domain.Word, limit int) []domain.Word {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SelectForPractice(s.userProgress(userID), words, limit, s.rng)
}

func (s *ProgressService) persist(userID int64, p domain.ProgressMap) {
	if err := s.store.SaveProgress(userID, p.Clone()); err != nil {
		s.logger.Warn("Failed to save progress",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}
