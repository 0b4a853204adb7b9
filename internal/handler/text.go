package handler

import (
	"strings"

	"dictee/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ensure user exists
	if err := h.authService.EnsureUserExists(userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send(msgError)
	}

	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(msgError)
	}

	if !authorized {
		return h.handlePassword(c, userID, text)
	}

	state := h.GetState(userID)
	switch state.State {
	case domain.StatePracticing:
		return h.handleAnswer(c, userID, text)
	default:
		return c.Send(msgMainMenu, mainMenuMarkup())
	}
}

// handlePassword checks the family password
func (h *Handler) handlePassword(c tele.Context, userID int64, password string) error {
	if !h.authService.CheckPassword(password) {
		h.logger.Info("Wrong password attempt", zap.Int64("user_id", userID))
		return c.Send("❌ Ce n'est pas le bon mot de passe. Essaie encore :")
	}

	if err := h.authService.AuthorizeUser(userID); err != nil {
		h.logger.Error("Failed to authorize user", zap.Error(err))
		return c.Send(msgError)
	}

	h.logger.Info("User authorized", zap.Int64("user_id", userID))
	h.ResetState(userID)
	return c.Send("✅ Bienvenue ! "+msgMainMenu, mainMenuMarkup())
}
