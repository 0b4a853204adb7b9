// Package wordlist loads the dictation words from the family spreadsheet.
package wordlist

import (
	"context"
	"sync"

	"dictee/internal/domain"
	"dictee/internal/repository"

	"go.uber.org/zap"
)

// ErrorMessage is the user-facing text shown after a failed fetch
const ErrorMessage = "Failed to load words"

// Source retrieves the authoritative word list
type Source interface {
	FetchWords(ctx context.Context) ([]domain.Word, error)
}

// Provider keeps the current word list in memory together with its loading and
// error state. When fetches overlap, only the most recently started one updates
// the state; older responses are dropped.
type Provider struct {
	source Source
	cache  repository.WordListCache
	logger *zap.Logger

	mu      sync.RWMutex
	words   []domain.Word
	loading bool
	errMsg  string
	seq     uint64
}

// NewProvider creates a provider. cache may be nil.
func NewProvider(source Source, cache repository.WordListCache, logger *zap.Logger) *Provider {
	return &Provider{
		source: source,
		cache:  cache,
		logger: logger,
		words:  []domain.Word{},
	}
}

// LoadCached seeds the provider with the last saved list, returning how many words it found
func (p *Provider) LoadCached() int {
	if p.cache == nil {
		return 0
	}
	cached := p.cache.LoadWordList()

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.words) == 0 && len(cached) > 0 {
		p.words = cached
	}
	return len(cached)
}

// Fetch retrieves the list from the source. On success the words are replaced and
// the error cleared; on failure the previous words are kept and Error returns
// ErrorMessage. The source error is returned as well.
func (p *Provider) Fetch(ctx context.Context) error {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.loading = true
	p.errMsg = ""
	p.mu.Unlock()

	words, err := p.source.FetchWords(ctx)

	p.mu.Lock()
	if seq != p.seq {
		p.mu.Unlock()
		p.logger.Debug("Dropping stale word list response", zap.Uint64("seq", seq))
		return err
	}
	p.loading = false
	if err != nil {
		p.errMsg = ErrorMessage
		p.mu.Unlock()
		p.logger.Error("Failed to fetch words", zap.Error(err))
		return err
	}
	p.words = words
	p.mu.Unlock()

	p.logger.Info("Word list loaded", zap.Int("count", len(words)))

	if p.cache != nil {
		if err := p.cache.SaveWordList(words); err != nil {
			p.logger.Warn("Failed to cache word list", zap.Error(err))
		}
	}
	return nil
}

// Refetch fetches the list again
func (p *Provider) Refetch(ctx context.Context) error {
	return p.Fetch(ctx)
}

// Words returns a copy of the current list
func (p *Provider) Words() []domain.Word {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Word, len(p.words))
	copy(out, p.words)
	return out
}

// Loading reports whether a fetch is outstanding
func (p *Provider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// Error returns the user-facing error of the last fetch, empty if it succeeded
func (p *Provider) Error() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.errMsg
}
