package service

import (
	"time"

	"dictee/internal/domain"

	"go.uber.org/zap"
)

// Report summarizes a child's progress over the current word list
type Report struct {
	TotalWords    int
	Practiced     int
	Mastered      int
	TotalAttempts int
	TotalCorrect  int
	LastPracticed time.Time // zero if nothing was practiced
}

// Accuracy returns the share of correct answers in percent
func (r Report) Accuracy() int {
	if r.TotalAttempts == 0 {
		return 0
	}
	return r.TotalCorrect * 100 / r.TotalAttempts
}

// StatsService builds progress reports
type StatsService struct {
	progress *ProgressService
	logger   *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(progress *ProgressService, logger *zap.Logger) *StatsService {
	return &StatsService{
		progress: progress,
		logger:   logger,
	}
}

// Report counts progress for the words still on the list; records of removed words are ignored
func (s *StatsService) Report(userID int64, words []domain.Word) Report {
	p := s.progress.Progress(userID)

	r := Report{TotalWords: len(words)}
	for _, w := range words {
		wp, ok := p[w.ID]
		if !ok {
			continue
		}
		r.Practiced++
		r.TotalAttempts += wp.TotalAttempts
		r.TotalCorrect += wp.TotalCorrect
		if wp.Mastered {
			r.Mastered++
		}
		if at := wp.LastPracticedAt(); at.After(r.LastPracticed) {
			r.LastPracticed = at
		}
	}

	s.logger.Debug("Progress report built",
		zap.Int64("user_id", userID),
		zap.Int("mastered", r.Mastered),
		zap.Int("total_words", r.TotalWords),
	)
	return r
}
