package testutil

import (
	"context"

	"dictee/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) IsAuthorized(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AuthorizeUser(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) EnsureUserExists(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockKeyValueStore is a mock for KeyValueStore
type MockKeyValueStore struct {
	mock.Mock
}

func (m *MockKeyValueStore) Get(key string) (string, bool, error) {
	args := m.Called(key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKeyValueStore) Set(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func (m *MockKeyValueStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// MockProgressStore is a mock for ProgressStore
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) LoadProgress(userID int64) domain.ProgressMap {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return domain.ProgressMap{}
	}
	return args.Get(0).(domain.ProgressMap)
}

func (m *MockProgressStore) SaveProgress(userID int64, progress domain.ProgressMap) error {
	args := m.Called(userID, progress)
	return args.Error(0)
}

// MockWordListCache is a mock for WordListCache
type MockWordListCache struct {
	mock.Mock
}

func (m *MockWordListCache) LoadWordList() []domain.Word {
	args := m.Called()
	if args.Get(0) == nil {
		return []domain.Word{}
	}
	return args.Get(0).([]domain.Word)
}

func (m *MockWordListCache) SaveWordList(words []domain.Word) error {
	args := m.Called(words)
	return args.Error(0)
}

// MockWordSource is a mock for the word list Source
type MockWordSource struct {
	mock.Mock
}

func (m *MockWordSource) FetchWords(ctx context.Context) ([]domain.Word, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Word), args.Error(1)
}
