package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/nutrition"
	"github.com/Kerhoff/mizan/internal/service"
	"github.com/Kerhoff/mizan/internal/telegram"
)

// PlanHandler handles /plan [YYYY-MM-DD]
type PlanHandler struct {
	svc    *service.Service
	logger *logrus.Logger
	now    func() time.Time
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(svc *service.Service, logger *logrus.Logger) *PlanHandler {
	return &PlanHandler{svc: svc, logger: logger, now: time.Now}
}

// Handle processes the /plan command.
func (h *PlanHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	date, err := dateArg(args, h.now())
	if err != nil {
		return reply(bot, message, "❌ Dates look like `2024-03-06`.")
	}

	ctx := context.Background()
	user, err := linkedUser(ctx, h.svc, bot, message)
	if err != nil || user == nil {
		return err
	}

	plan, err := h.svc.GetPlan(ctx, user.ID, date, false)
	if errors.Is(err, service.ErrNotFound) {
		return reply(bot, message, fmt.Sprintf("📅 Nothing planned for %s.", date.Format(nutrition.DateLayout)))
	}
	if err != nil {
		return fmt.Errorf("get plan: %w", err)
	}

	return reply(bot, message, formatPlan(plan))
}

// FormatDigest renders the morning message for a day's plan
func FormatDigest(plan *models.MealPlan) string {
	return "☀️ *Good morning!*\n\n" + formatPlan(plan)
}

func formatPlan(plan *models.MealPlan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 *Meal plan for %s*\n\n", plan.Date.Format(nutrition.DateLayout))
	for _, e := range plan.Entries {
		name := fmt.Sprintf("recipe #%d (removed)", e.RecipeID)
		if e.Recipe != nil {
			name = e.Recipe.Name
		}
		fmt.Fprintf(&sb, "• _%s_: %s × %g\n", e.MealTime, escape(name), e.Servings)
	}
	fmt.Fprintf(&sb, "\n*Total:* %s", formatMacros(plan.Macros))
	return sb.String()
}
