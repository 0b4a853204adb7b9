package wordlist

import (
	"context"
	"fmt"
	"testing"

	"dictee/internal/domain"
	"dictee/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProvider_Fetch(t *testing.T) {
	words := testutil.NewTestWords("école", "forêt")

	tests := []struct {
		name          string
		mockWords     []domain.Word
		mockError     error
		expectedWords []domain.Word
		expectedMsg   string
		expectedError bool
	}{
		{
			name:          "successful fetch",
			mockWords:     words,
			expectedWords: words,
		},
		{
			name:          "source failure",
			mockError:     fmt.Errorf("timeout"),
			expectedWords: []domain.Word{},
			expectedMsg:   ErrorMessage,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(testutil.MockWordSource)
			source.On("FetchWords", mock.Anything).Return(tt.mockWords, tt.mockError)

			cache := new(testutil.MockWordListCache)
			if tt.mockError == nil {
				cache.On("SaveWordList", tt.mockWords).Return(nil)
			}

			p := NewProvider(source, cache, testutil.NewTestLogger())

			err := p.Fetch(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedWords, p.Words())
			assert.Equal(t, tt.expectedMsg, p.Error())
			assert.False(t, p.Loading())

			source.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestProvider_FailureKeepsPreviousWords(t *testing.T) {
	words := testutil.NewTestWords("hibou", "caillou")
	source := new(testutil.MockWordSource)
	source.On("FetchWords", mock.Anything).Return(words, nil).Once()
	source.On("FetchWords", mock.Anything).Return(nil, fmt.Errorf("503")).Once()
	source.On("FetchWords", mock.Anything).Return(words[:1], nil).Once()

	p := NewProvider(source, nil, testutil.NewTestLogger())

	require.NoError(t, p.Fetch(context.Background()))
	assert.Empty(t, p.Error())

	assert.Error(t, p.Refetch(context.Background()))
	assert.Equal(t, words, p.Words())
	assert.Equal(t, ErrorMessage, p.Error())

	require.NoError(t, p.Refetch(context.Background()))
	assert.Equal(t, words[:1], p.Words())
	assert.Empty(t, p.Error())
}

func TestProvider_CacheFailureIgnored(t *testing.T) {
	words := testutil.NewTestWords("genou")
	source := new(testutil.MockWordSource)
	source.On("FetchWords", mock.Anything).Return(words, nil)
	cache := new(testutil.MockWordListCache)
	cache.On("SaveWordList", words).Return(fmt.Errorf("read-only"))

	p := NewProvider(source, cache, testutil.NewTestLogger())

	assert.NoError(t, p.Fetch(context.Background()))
	assert.Equal(t, words, p.Words())
}

func TestProvider_LoadCached(t *testing.T) {
	cached := testutil.NewTestWords("bijou", "chou")
	cache := new(testutil.MockWordListCache)
	cache.On("LoadWordList").Return(cached)

	p := NewProvider(new(testutil.MockWordSource), cache, testutil.NewTestLogger())

	assert.Equal(t, 2, p.LoadCached())
	assert.Equal(t, cached, p.Words())

	assert.Equal(t, 0, NewProvider(nil, nil, testutil.NewTestLogger()).LoadCached())
}

// blockingSource hands every call's reply channel to the test
type blockingSource struct {
	calls chan chan []domain.Word
}

func (b *blockingSource) FetchWords(ctx context.Context) ([]domain.Word, error) {
	reply := make(chan []domain.Word)
	b.calls <- reply
	return <-reply, nil
}

func TestProvider_StaleResponseDropped(t *testing.T) {
	source := &blockingSource{calls: make(chan chan []domain.Word)}
	p := NewProvider(source, nil, testutil.NewTestLogger())

	older := testutil.NewTestWords("ancien")
	newer := testutil.NewTestWords("nouveau", "récent")

	firstDone := make(chan error)
	go func() { firstDone <- p.Fetch(context.Background()) }()
	first := <-source.calls
	assert.True(t, p.Loading())

	secondDone := make(chan error)
	go func() { secondDone <- p.Refetch(context.Background()) }()
	second := <-source.calls

	// The newer request completes first, then the older one
	second <- newer
	require.NoError(t, <-secondDone)
	first <- older
	require.NoError(t, <-firstDone)

	assert.Equal(t, newer, p.Words())
	assert.False(t, p.Loading())
}
