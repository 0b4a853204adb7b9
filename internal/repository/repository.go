package repository

import (
	"dictee/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	IsAuthorized(userID int64) (bool, error)
	AuthorizeUser(userID int64) error
	EnsureUserExists(userID int64) error
}

// KeyValueStore is the durable string store behind the word list cache and progress.
// Get reports found=false for an absent key without an error.
type KeyValueStore interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// ProgressStore loads and saves a user's progress mapping
type ProgressStore interface {
	LoadProgress(userID int64) domain.ProgressMap
	SaveProgress(userID int64, progress domain.ProgressMap) error
}

// WordListCache keeps the last fetched word list
type WordListCache interface {
	LoadWordList() []domain.Word
	SaveWordList(words []domain.Word) error
}
