package handler

import (
	"context"
	"path/filepath"
	"sync"

	"dictee/internal/domain"
	"dictee/internal/middleware"
	"dictee/internal/service"
	"dictee/internal/speech"
	"dictee/internal/wordlist"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot             *tele.Bot
	authService     *service.AuthService
	progressService *service.ProgressService
	statsService    *service.StatsService
	words           *wordlist.Provider
	synth           speech.Synthesizer
	audioDir        string
	roundSize       int
	logger          *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Serializes answers of one user, taps on the accent keyboard arrive concurrently
	userLocks map[int64]*sync.Mutex
	lockMux   sync.Mutex

	announcers map[int64]*speech.Announcer
	speechMux  sync.Mutex
}

// Options holds the collaborators of a Handler
type Options struct {
	AuthService     *service.AuthService
	ProgressService *service.ProgressService
	StatsService    *service.StatsService
	Words           *wordlist.Provider
	Synthesizer     speech.Synthesizer // may be nil
	AudioDir        string
	RoundSize       int
	Logger          *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, opts Options) *Handler {
	return &Handler{
		bot:             bot,
		authService:     opts.AuthService,
		progressService: opts.ProgressService,
		statsService:    opts.StatsService,
		words:           opts.Words,
		synth:           opts.Synthesizer,
		audioDir:        opts.AudioDir,
		roundSize:       opts.RoundSize,
		logger:          opts.Logger,
		states:          make(map[int64]*domain.StateData),
		userLocks:       make(map[int64]*sync.Mutex),
		announcers:      make(map[int64]*speech.Announcer),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Handle("/start", h.handleStart)

	// Password and answers are typed as text
	h.bot.Handle(tele.OnText, h.handleText)

	// Everything else requires an authorized user
	g := h.bot.Group()
	g.Use(middleware.AuthMiddleware(h.authService, h.logger))

	g.Handle("/dictee", h.handlePractice)
	g.Handle("/stats", h.handleStats)
	g.Handle("/reset", h.handleResetRequest)
	g.Handle("/refresh", h.handleRefresh)

	g.Handle(&btnPractice, h.handlePractice)
	g.Handle(&btnStats, h.handleStats)
	g.Handle(&btnReset, h.handleResetRequest)
	g.Handle(&btnResetConfirm, h.handleResetConfirm)
	g.Handle(&btnResetCancel, h.handleStart)
	g.Handle(&btnRefresh, h.handleRefresh)
	g.Handle(&btnMainMenu, h.handleStart)
	g.Handle(&btnRepeat, h.handleRepeat)
	g.Handle(&btnBackspace, h.handleBackspace)
	g.Handle(&btnSubmit, h.handleSubmit)
	g.Handle(&btnStop, h.handleStop)
	g.Handle(&btnAccent, h.handleAccent)

	// Generic callback handler for buttons whose unique did not come through
	g.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// lockUser returns the user's lock, already held
func (h *Handler) lockUser(userID int64) *sync.Mutex {
	h.lockMux.Lock()
	lock, exists := h.userLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.userLocks[userID] = lock
	}
	h.lockMux.Unlock()

	lock.Lock()
	return lock
}

// announcer returns the user's announcer, delivering audio to their chat
func (h *Handler) announcer(userID int64) *speech.Announcer {
	h.speechMux.Lock()
	defer h.speechMux.Unlock()

	a, exists := h.announcers[userID]
	if exists {
		return a
	}

	sink := func(ctx context.Context, file string) error {
		_, err := h.bot.Send(tele.ChatID(userID), &tele.Audio{
			File:     tele.FromDisk(file),
			Title:    "Écoute bien",
			FileName: "mot" + filepath.Ext(file),
		})
		return err
	}
	a = speech.NewAnnouncer(h.synth, sink, h.audioDir, h.logger.With(zap.Int64("user_id", userID)))
	h.announcers[userID] = a
	return a
}
