package handlers

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/service"
	"github.com/Kerhoff/mizan/internal/telegram"
)

// LinkHandler handles /link <email> <password>, binding the sender's
// Telegram id to an existing account.
type LinkHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(svc *service.Service, logger *logrus.Logger) *LinkHandler {
	return &LinkHandler{svc: svc, logger: logger}
}

// Handle processes the /link command.
func (h *LinkHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) != 2 {
		return reply(bot, message, "❌ Please provide your email and password.\n\n"+
			"*Usage:*\n"+
			"`/link you@example.com your-password`")
	}

	// The credentials should not linger in the chat history.
	if _, err := bot.Request(tgbotapi.NewDeleteMessage(message.Chat.ID, message.MessageID)); err != nil {
		h.logger.WithError(err).Warn("failed to delete /link message")
	}

	if !message.Chat.IsPrivate() {
		return reply(bot, message, "🔒 Please link your account in a private chat with me, then change your password.")
	}

	user, err := h.svc.LinkTelegram(context.Background(), args[0], args[1], message.From.ID)
	if errors.Is(err, service.ErrUnauthorized) {
		return reply(bot, message, "❌ Invalid email or password.")
	}
	if errors.Is(err, service.ErrConflict) {
		return reply(bot, message, "❌ This Telegram account is already linked to another user.")
	}
	if err != nil {
		return fmt.Errorf("link telegram: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":     user.ID,
		"telegram_id": message.From.ID,
	}).Info("Linked telegram account")

	return reply(bot, message, fmt.Sprintf("✅ Linked to *%s*. Try /plan or /shopping.", escape(user.DisplayName())))
}
