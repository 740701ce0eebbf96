package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/service"
	"github.com/Kerhoff/mizan/internal/telegram"
)

// SuggestHandler handles /suggest, showing today's recipe suggestions.
type SuggestHandler struct {
	svc    *service.Service
	logger *logrus.Logger
	now    func() time.Time
}

// NewSuggestHandler creates a new SuggestHandler.
func NewSuggestHandler(svc *service.Service, logger *logrus.Logger) *SuggestHandler {
	return &SuggestHandler{svc: svc, logger: logger, now: time.Now}
}

// Handle processes the /suggest command.
func (h *SuggestHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()
	user, err := linkedUser(ctx, h.svc, bot, message)
	if err != nil || user == nil {
		return err
	}

	date, _ := dateArg(nil, h.now())
	sug, err := h.svc.DailySuggestions(ctx, user.ID, date)
	if err != nil {
		return fmt.Errorf("get suggestions: %w", err)
	}

	if len(sug.Recipes) == 0 {
		return reply(bot, message, "🤷 No suggestions yet. Add some recipes first.")
	}

	var sb strings.Builder
	sb.WriteString("💡 *Ideas for today*\n\n")
	for _, r := range sug.Recipes {
		fmt.Fprintf(&sb, "• %s (%.0f kcal/serving)\n", escape(r.Name), r.PerServing().Calories)
	}
	return reply(bot, message, sb.String())
}
