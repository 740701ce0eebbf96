package handlers

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/nutrition"
	"github.com/Kerhoff/mizan/internal/service"
	"github.com/Kerhoff/mizan/internal/telegram"
)

// ShoppingHandler handles /shopping [YYYY-MM-DD], listing what to buy for
// every meal planned in the week containing the date.
type ShoppingHandler struct {
	svc    *service.Service
	logger *logrus.Logger
	now    func() time.Time
}

// NewShoppingHandler creates a new ShoppingHandler.
func NewShoppingHandler(svc *service.Service, logger *logrus.Logger) *ShoppingHandler {
	return &ShoppingHandler{svc: svc, logger: logger, now: time.Now}
}

// Handle processes the /shopping command.
func (h *ShoppingHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	date, err := dateArg(args, h.now())
	if err != nil {
		return reply(bot, message, "❌ Dates look like `2024-03-06`.")
	}

	ctx := context.Background()
	user, err := linkedUser(ctx, h.svc, bot, message)
	if err != nil || user == nil {
		return err
	}

	items, err := h.svc.ShoppingList(ctx, user.ID, date)
	if err != nil {
		return fmt.Errorf("build shopping list: %w", err)
	}

	from, _ := h.svc.WeekWindow(date)
	text := fmt.Sprintf("🛒 *Shopping list, week of %s*\n\n%s",
		from.Format(nutrition.DateLayout), escape(service.FormatShoppingList(items)))

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"items":   len(items),
	}).Info("Sent shopping list")

	return reply(bot, message, text)
}
