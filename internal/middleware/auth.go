package middleware

import (
	"dictee/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Messages shared with the handlers
const (
	MsgError          = "Oups, une erreur est survenue. Réessaie plus tard."
	MsgPasswordPrompt = "Bonjour ! 👋 Pour jouer, écris le mot de passe de la famille :"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(authService *service.AuthService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID

			// Ensure user exists
			if err := authService.EnsureUserExists(userID); err != nil {
				logger.Error("Failed to ensure user exists in middleware", zap.Error(err))
				return c.Send(MsgError)
			}

			// Check authorization
			authorized, err := authService.IsAuthorized(userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return c.Send(MsgError)
			}

			if !authorized {
				logger.Debug("Unauthorized access", zap.Int64("user_id", userID))
				if c.Callback() != nil {
					_ = c.Respond(&tele.CallbackResponse{Text: "Mot de passe requis"})
				}
				return c.Send(MsgPasswordPrompt)
			}

			return next(c)
		}
	}
}
