package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dictee/internal/config"
	"dictee/internal/handler"
	"dictee/internal/service"
	"dictee/internal/speech"
	"dictee/internal/storage"
	"dictee/internal/wordlist"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting Dictée Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if err := cfg.RequireBot(); err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully")

	st, err := openStores(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer st.Close()

	store := storage.New(st.kv)

	// Initialize services
	authService := service.NewAuthService(st.users, cfg.BotPassword)
	progressService := service.NewProgressService(store, logger)
	statsService := service.NewStatsService(progressService, logger)

	// Word list: seed from the cache, then fetch the sheet
	source := wordlist.NewSheetsSource(cfg.WordsSheetURL, cfg.FetchTimeout)
	provider := wordlist.NewProvider(source, store, logger)
	if n := provider.LoadCached(); n > 0 {
		logger.Info("Cached word list loaded", zap.Int("count", n))
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go runRefreshJob(ctx, provider, cfg.RefreshInterval, logger)

	synth := newSynthesizer(cfg.Speech, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Handler failed", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	h := handler.NewHandler(bot, handler.Options{
		AuthService:     authService,
		ProgressService: progressService,
		StatsService:    statsService,
		Words:           provider,
		Synthesizer:     synth,
		AudioDir:        cfg.Speech.AudioDir,
		RoundSize:       cfg.RoundSize,
		Logger:          logger,
	})
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
	return nil
}

// newSynthesizer combines the local espeak-ng voice with OpenAI voices when a key is set
func newSynthesizer(cfg config.SpeechConfig, logger *zap.Logger) speech.Synthesizer {
	synths := []speech.Synthesizer{speech.NewESpeak(cfg.ESpeakBinary)}

	if cfg.OpenAIKey != "" {
		remote, err := speech.NewOpenAI(speech.OpenAIConfig{
			APIKey: cfg.OpenAIKey,
			Model:  cfg.OpenAIModel,
			Voice:  cfg.OpenAIVoice,
		})
		if err != nil {
			logger.Warn("OpenAI speech disabled", zap.Error(err))
		} else {
			synths = append(synths, remote)
		}
	}

	composite := speech.NewComposite(synths...)
	if err := composite.IsAvailable(); err != nil {
		logger.Warn("No speech synthesizer available", zap.Error(err))
	} else {
		logger.Info("Speech synthesis ready", zap.String("synthesizer", composite.Name()))
	}
	return composite
}

// runRefreshJob fetches the word list at start-up and then periodically
func runRefreshJob(ctx context.Context, provider *wordlist.Provider, interval time.Duration, logger *zap.Logger) {
	// Fetch once at startup
	if err := provider.Fetch(ctx); err != nil {
		logger.Error("Failed to run initial word list fetch", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Refresh job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled word list refresh")
			if err := provider.Refetch(ctx); err != nil {
				logger.Error("Failed to run scheduled refresh", zap.Error(err))
			}
		}
	}
}
