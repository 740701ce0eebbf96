package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/nutrition"
	"github.com/Kerhoff/mizan/internal/service"
	"github.com/Kerhoff/mizan/internal/telegram"
)

const notLinkedText = "🔗 Your Telegram account is not linked yet.\n\n" +
	"Send `/link <email> <password>` in a private chat with me to connect it."

// reply sends a Markdown message to the chat the command came from.
func reply(bot telegram.Sender, message *tgbotapi.Message, text string) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// linkedUser resolves the account bound to the sender. When the sender has
// not linked an account it tells them how and returns a nil user.
func linkedUser(ctx context.Context, svc *service.Service, bot telegram.Sender, message *tgbotapi.Message) (*models.User, error) {
	user, err := svc.UserByTelegram(ctx, message.From.ID)
	if errors.Is(err, service.ErrNotFound) {
		return nil, reply(bot, message, notLinkedText)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// dateArg parses an optional YYYY-MM-DD argument, defaulting to today.
func dateArg(args []string, now time.Time) (time.Time, error) {
	if len(args) == 0 {
		return nutrition.DayStart(now.UTC()), nil
	}
	return nutrition.ParseDate(args[0])
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func formatMacros(m models.Macros) string {
	return fmt.Sprintf("%.0f kcal · P %.0fg · C %.0fg · F %.0fg · Fib %.0fg",
		m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber)
}
