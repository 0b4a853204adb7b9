package handler

import (
	"fmt"
	"sync"
	"testing"

	"dictee/internal/domain"
	"dictee/internal/repository/memory"
	"dictee/internal/service"
	"dictee/internal/storage"
	"dictee/internal/testutil"
	"dictee/internal/wordlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

// fakeContext implements the parts of tele.Context the practice handlers use
type fakeContext struct {
	tele.Context
	sender *tele.User

	mu   sync.Mutex
	sent []interface{}
}

func (c *fakeContext) Sender() *tele.User { return c.sender }

func (c *fakeContext) Callback() *tele.Callback { return &tele.Callback{} }

func (c *fakeContext) Respond(...*tele.CallbackResponse) error { return nil }

func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, what)
	return nil
}

func newTestHandler() *Handler {
	return NewHandler(nil, Options{
		RoundSize: 10,
		Logger:    testutil.NewTestLogger(),
	})
}

func TestHandler_State(t *testing.T) {
	h := newTestHandler()
	userID := int64(42)

	assert.Equal(t, domain.StateIdle, h.GetState(userID).State)

	session := domain.NewGameSession(domain.ModeDictee, testutil.NewTestWords("chat"))
	h.SetState(userID, &domain.StateData{State: domain.StatePracticing, Session: session})

	state := h.GetState(userID)
	assert.Equal(t, domain.StatePracticing, state.State)
	assert.Same(t, session, state.Session)

	// other users are unaffected
	assert.Equal(t, domain.StateIdle, h.GetState(7).State)

	h.ResetState(userID)
	assert.Equal(t, domain.StateIdle, h.GetState(userID).State)
	assert.Nil(t, h.GetState(userID).Session)
}

func TestHandler_LockUser(t *testing.T) {
	h := newTestHandler()

	first := h.lockUser(1)
	first.Unlock()
	second := h.lockUser(1)
	second.Unlock()
	assert.Same(t, first, second)

	other := h.lockUser(2)
	other.Unlock()
	assert.NotSame(t, first, other)
}

func TestHandler_AnnouncerWithoutSynthesizer(t *testing.T) {
	h := newTestHandler()

	a := h.announcer(1)
	assert.Same(t, a, h.announcer(1))
	assert.False(t, a.Supported())

	// no-op without a synthesizer
	a.Speak("chat")
	assert.False(t, a.Speaking())
}

func TestHandler_RepeatDuringAnswers(t *testing.T) {
	logger := testutil.NewTestLogger()
	progress := service.NewProgressService(storage.New(memory.NewKVStore()), logger)
	h := NewHandler(nil, Options{
		ProgressService: progress,
		Words:           wordlist.NewProvider(nil, nil, logger),
		RoundSize:       100,
		Logger:          logger,
	})

	userID := int64(42)
	texts := make([]string, 100)
	for i := range texts {
		texts[i] = fmt.Sprintf("mot%d", i)
	}
	session := domain.NewGameSession(domain.ModeDictee, testutil.NewTestWords(texts...))
	h.SetState(userID, &domain.StateData{State: domain.StatePracticing, Session: session})

	c := &fakeContext{sender: &tele.User{ID: userID}}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range texts {
			assert.NoError(t, h.handleAnswer(c, userID, "faux"))
		}
	}()
	go func() {
		defer wg.Done()
		for range texts {
			assert.NoError(t, h.handleRepeat(c))
		}
	}()
	wg.Wait()

	require.True(t, session.Completed)
	assert.Len(t, session.Results, len(texts))
	assert.Equal(t, 0, session.Stars)
	assert.Equal(t, domain.StateIdle, h.GetState(userID).State)
}
