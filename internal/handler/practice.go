package handler

import (
	"context"
	"fmt"
	"time"

	"dictee/internal/domain"
	"dictee/internal/wordlist"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const refreshTimeout = 30 * time.Second

// handlePractice starts a new dictation round
func (h *Handler) handlePractice(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.lockUser(userID)
	defer lock.Unlock()

	if c.Callback() != nil {
		_ = c.Respond()
	}

	words := h.words.Words()
	if len(words) == 0 {
		if h.words.Loading() {
			return c.Send("⏳ Les mots arrivent, réessaie dans un instant.")
		}
		if msg := h.words.Error(); msg != "" {
			return c.Send("😕 "+msg, mainMenuMarkup())
		}
		return c.Send("📭 Il n'y a pas encore de mots à apprendre.", mainMenuMarkup())
	}

	round := h.progressService.WordsForPractice(userID, words, h.roundSize)
	session := domain.NewGameSession(domain.ModeDictee, round)
	state := &domain.StateData{State: domain.StatePracticing, Session: session}
	h.SetState(userID, state)

	h.logger.Info("Practice round started",
		zap.Int64("user_id", userID),
		zap.Int("words", len(round)),
	)

	return h.askCurrent(c, userID, state)
}

// askCurrent sends the prompt for the current word and pronounces it
func (h *Handler) askCurrent(c tele.Context, userID int64, state *domain.StateData) error {
	word, ok := state.Session.Current()
	if !ok {
		return nil
	}

	if err := c.Send(promptText(state.Session, state.Draft), accentKeyboardMarkup()); err != nil {
		return err
	}

	a := h.announcer(userID)
	if !a.Supported() {
		return c.Send("🔇 Le son n'est pas disponible. Demande à un adulte de lire le mot.")
	}
	a.Speak(word.Text)
	return nil
}

// handleAnswer checks a typed answer against the current word
func (h *Handler) handleAnswer(c tele.Context, userID int64, text string) error {
	lock := h.lockUser(userID)
	defer lock.Unlock()

	state := h.GetState(userID)
	if state.State != domain.StatePracticing || state.Session == nil {
		return c.Send(msgMainMenu, mainMenuMarkup())
	}
	return h.submit(c, userID, state, state.Draft+text)
}

// submit records the answer, gives feedback and moves on
func (h *Handler) submit(c tele.Context, userID int64, state *domain.StateData, answer string) error {
	word, ok := state.Session.Current()
	if !ok {
		h.ResetState(userID)
		return c.Send(msgMainMenu, mainMenuMarkup())
	}
	if normalizeAnswer(answer) == "" {
		return c.Send("✏️ Écris le mot avant de valider.")
	}

	correct := checkAnswer(word, answer)
	h.progressService.RecordAttempt(userID, word.ID, correct)
	state.Session.Answer(correct)
	state.Draft = ""

	h.logger.Debug("Answer checked",
		zap.Int64("user_id", userID),
		zap.String("word_id", word.ID),
		zap.Bool("correct", correct),
	)

	var feedback string
	if correct {
		feedback = "✅ Bravo ! " + starCounter(state.Session.Stars, len(state.Session.Words))
	} else {
		feedback = fmt.Sprintf("❌ Presque ! Il fallait écrire : « %s »", word.Text)
	}
	if err := c.Send(feedback); err != nil {
		return err
	}

	if state.Session.Completed {
		return h.finishRound(c, userID, state.Session)
	}
	return h.askCurrent(c, userID, state)
}

// finishRound shows the stars of the round and returns to the menu
func (h *Handler) finishRound(c tele.Context, userID int64, session *domain.GameSession) error {
	h.ResetState(userID)

	words := h.words.Words()
	mastered := h.progressService.MasteryCount(userID, words)

	h.logger.Info("Practice round finished",
		zap.Int64("user_id", userID),
		zap.Int("stars", session.Stars),
		zap.Int("words", len(session.Words)),
	)

	return c.Send(roundSummary(session, mastered, len(words)), mainMenuMarkup())
}

// practiceCallback loads the running round for accent keyboard buttons
func (h *Handler) practiceCallback(c tele.Context, userID int64) (*domain.StateData, bool) {
	state := h.GetState(userID)
	if state.State != domain.StatePracticing || state.Session == nil {
		_ = c.Respond(&tele.CallbackResponse{Text: "Cette dictée est terminée"})
		return nil, false
	}
	return state, true
}

// editPrompt redraws the prompt after the draft changed
func (h *Handler) editPrompt(c tele.Context, userID int64, state *domain.StateData) error {
	text := promptText(state.Session, state.Draft)
	if err := c.Edit(text, accentKeyboardMarkup()); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(text, accentKeyboardMarkup())
	}
	return c.Respond()
}

// handleAccent appends an accented letter to the draft
func (h *Handler) handleAccent(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.lockUser(userID)
	defer lock.Unlock()

	state, ok := h.practiceCallback(c, userID)
	if !ok {
		return nil
	}

	char := cleanCallbackData(c.Data())
	if char == "" {
		return c.Respond()
	}
	state.Draft += char
	return h.editPrompt(c, userID, state)
}

// handleBackspace removes the last letter of the draft
func (h *Handler) handleBackspace(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.lockUser(userID)
	defer lock.Unlock()

	state, ok := h.practiceCallback(c, userID)
	if !ok {
		return nil
	}
	if state.Draft == "" {
		return c.Respond()
	}
	state.Draft = trimLastRune(state.Draft)
	return h.editPrompt(c, userID, state)
}

// handleSubmit validates the draft built with the accent keyboard
func (h *Handler) handleSubmit(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.lockUser(userID)
	defer lock.Unlock()

	state, ok := h.practiceCallback(c, userID)
	if !ok {
		return nil
	}
	_ = c.Respond()
	return h.submit(c, userID, state, state.Draft)
}

// handleRepeat pronounces the current word again
func (h *Handler) handleRepeat(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.lockUser(userID)
	defer lock.Unlock()

	state, ok := h.practiceCallback(c, userID)
	if !ok {
		return nil
	}
	word, ok := state.Session.Current()
	if !ok {
		return c.Respond()
	}

	a := h.announcer(userID)
	if !a.Supported() {
		return c.Respond(&tele.CallbackResponse{Text: "🔇 Son indisponible", ShowAlert: true})
	}
	a.Speak(word.Text)
	return c.Respond(&tele.CallbackResponse{Text: "🔊"})
}

// handleStop abandons the running round
func (h *Handler) handleStop(c tele.Context) error {
	userID := c.Sender().ID

	lock := h.lockUser(userID)
	defer lock.Unlock()

	h.announcer(userID).Cancel()
	state := h.GetState(userID)
	h.ResetState(userID)

	text := msgMainMenu
	if state.Session != nil && len(state.Session.Results) > 0 {
		text = fmt.Sprintf("⏹ Dictée arrêtée. %s\n\n%s",
			starCounter(state.Session.Stars, len(state.Session.Results)), msgMainMenu)
	}

	if err := c.Edit(text, mainMenuMarkup()); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(text, mainMenuMarkup())
	}
	return c.Respond()
}

// handleStats shows stars and mastered words
func (h *Handler) handleStats(c tele.Context) error {
	userID := c.Sender().ID

	report := h.statsService.Report(userID, h.words.Words())
	text := statsText(report)

	if c.Callback() != nil {
		_ = c.Respond()
	}
	return c.Send(text, mainMenuMarkup())
}

// handleResetRequest asks for confirmation before erasing progress
func (h *Handler) handleResetRequest(c tele.Context) error {
	userID := c.Sender().ID
	h.SetState(userID, &domain.StateData{State: domain.StateConfirming})

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnResetConfirm, btnResetCancel))

	if c.Callback() != nil {
		_ = c.Respond()
	}
	return c.Send("🧹 Effacer toutes tes étoiles et recommencer à zéro ?", markup)
}

// handleResetConfirm erases the user's progress
func (h *Handler) handleResetConfirm(c tele.Context) error {
	userID := c.Sender().ID

	if h.GetState(userID).State != domain.StateConfirming {
		return c.Respond(&tele.CallbackResponse{Text: "Rien à effacer"})
	}

	h.progressService.ResetProgress(userID)
	h.ResetState(userID)
	h.logger.Info("Progress reset", zap.Int64("user_id", userID))

	text := "✨ Tout est effacé, on repart à zéro !\n\n" + msgMainMenu
	if err := c.Edit(text, mainMenuMarkup()); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(text, mainMenuMarkup())
	}
	return c.Respond()
}

// handleRefresh reloads the word list from the spreadsheet
func (h *Handler) handleRefresh(c tele.Context) error {
	if c.Callback() != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: "🔄"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := h.words.Refetch(ctx); err != nil {
		return c.Send("😕 "+wordlist.ErrorMessage, mainMenuMarkup())
	}
	return c.Send(fmt.Sprintf("🔄 %d mots chargés !", len(h.words.Words())), mainMenuMarkup())
}
