package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/telegram"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

func (h *HelpHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	helpText := `📚 *Mizan Help*

*Account:*
• /link <email> <password> - Link this Telegram account

*Planning:*
• /plan [YYYY-MM-DD] - Show the meal plan for a day
• /shopping [YYYY-MM-DD] - Shopping list for that week

*Goals:*
• /goal - Show your current macro goal
• /goal <kcal> <protein> <carbs> <fat> [fiber] - Set a new goal

*Ideas:*
• /suggest - Recipe suggestions for today

_Dates default to today._`

	if err := reply(bot, message, helpText); err != nil {
		return fmt.Errorf("failed to send help message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"user_id": message.From.ID,
	}).Info("Sent help message")

	return nil
}
