// Package storage persists the word list cache and per-user progress as JSON
// documents in a key-value store.
package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"dictee/internal/domain"
	"dictee/internal/repository"
)

const (
	KeyWordList = "dictee_word_list"
	KeyProgress = "dictee_progress"
)

// Storage implements repository.ProgressStore and repository.WordListCache
type Storage struct {
	kv  repository.KeyValueStore
	now func() time.Time
}

// New creates a storage over the given key-value store
func New(kv repository.KeyValueStore) *Storage {
	return &Storage{kv: kv, now: time.Now}
}

// ProgressKey returns the key holding a user's progress mapping
func ProgressKey(userID int64) string {
	return KeyProgress + ":" + strconv.FormatInt(userID, 10)
}

// SaveWordList stores words with fresh timestamps
func (s *Storage) SaveWordList(words []domain.Word) error {
	now := s.now().UnixMilli()
	data := domain.WordListData{
		Words:     words,
		CreatedAt: now,
		UpdatedAt: now,
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode word list: %w", err)
	}
	return s.kv.Set(KeyWordList, string(raw))
}

// LoadWordList returns the cached words, empty when absent or unreadable
func (s *Storage) LoadWordList() []domain.Word {
	raw, found, err := s.kv.Get(KeyWordList)
	if err != nil || !found {
		return []domain.Word{}
	}
	var data domain.WordListData
	if err := json.Unmarshal([]byte(raw), &data); err != nil || data.Words == nil {
		return []domain.Word{}
	}
	return data.Words
}

// SaveProgress stores the whole progress mapping of a user
func (s *Storage) SaveProgress(userID int64, progress domain.ProgressMap) error {
	if progress == nil {
		progress = domain.ProgressMap{}
	}
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	return s.kv.Set(ProgressKey(userID), string(raw))
}

// LoadProgress returns the stored mapping of a user, empty when absent or unreadable
func (s *Storage) LoadProgress(userID int64) domain.ProgressMap {
	raw, found, err := s.kv.Get(ProgressKey(userID))
	if err != nil || !found {
		return domain.ProgressMap{}
	}
	var progress domain.ProgressMap
	if err := json.Unmarshal([]byte(raw), &progress); err != nil || progress == nil {
		return domain.ProgressMap{}
	}
	return progress
}

// ClearAllData removes the word list cache and the user's progress
func (s *Storage) ClearAllData(userID int64) error {
	if err := s.kv.Delete(KeyWordList); err != nil {
		return err
	}
	return s.kv.Delete(ProgressKey(userID))
}
