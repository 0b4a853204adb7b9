package handler

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// Another callback already edited the message
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		_ = c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// callbackRoutes maps button uniques to their handlers
func (h *Handler) callbackRoutes() map[string]tele.HandlerFunc {
	return map[string]tele.HandlerFunc{
		btnPractice.Unique:     h.handlePractice,
		btnStats.Unique:        h.handleStats,
		btnReset.Unique:        h.handleResetRequest,
		btnResetConfirm.Unique: h.handleResetConfirm,
		btnResetCancel.Unique:  h.handleStart,
		btnRefresh.Unique:      h.handleRefresh,
		btnMainMenu.Unique:     h.handleStart,
		btnRepeat.Unique:       h.handleRepeat,
		btnBackspace.Unique:    h.handleBackspace,
		btnSubmit.Unique:       h.handleSubmit,
		btnStop.Unique:         h.handleStop,
	}
}

// handleCallback handles callback queries that did not match a registered button
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Info("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("data_raw", callback.Data),
		zap.String("id", callback.ID),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	routes := h.callbackRoutes()
	if handle, ok := routes[callback.Unique]; ok {
		return handle(c)
	}

	// If Unique is empty, try to handle by Data
	if callback.Unique == "" {
		if handle, ok := routes[data]; ok {
			return handle(c)
		}
	}

	if callback.Unique == btnAccent.Unique {
		return h.handleAccent(c)
	}

	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}
