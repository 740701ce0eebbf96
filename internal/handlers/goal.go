package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/service"
	"github.com/Kerhoff/mizan/internal/telegram"
)

// GoalHandler handles /goal. Without arguments it shows the current goal,
// with 4 or 5 numbers it stores a new version.
type GoalHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(svc *service.Service, logger *logrus.Logger) *GoalHandler {
	return &GoalHandler{svc: svc, logger: logger}
}

// Handle processes the /goal command.
func (h *GoalHandler) Handle(bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()
	user, err := linkedUser(ctx, h.svc, bot, message)
	if err != nil || user == nil {
		return err
	}

	if len(args) == 0 {
		goal, err := h.svc.CurrentGoal(ctx, user.ID)
		if errors.Is(err, service.ErrNotFound) {
			return reply(bot, message, "🎯 No goal set yet. Use `/goal 2000 150 200 70 30`.")
		}
		if err != nil {
			return fmt.Errorf("get goal: %w", err)
		}
		return reply(bot, message, fmt.Sprintf("🎯 *Goal v%d*\n%s", goal.Version, formatMacros(goal.Macros)))
	}

	macros, ok := parseGoalArgs(args)
	if !ok {
		return reply(bot, message, "❌ *Usage:* `/goal <kcal> <protein> <carbs> <fat> [fiber]`")
	}

	goal, err := h.svc.SetGoal(ctx, user.ID, macros)
	if errors.Is(err, service.ErrInvalidInput) {
		return reply(bot, message, "❌ "+escape(err.Error()))
	}
	if err != nil {
		return fmt.Errorf("set goal: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"version": goal.Version,
	}).Info("Goal set from telegram")

	return reply(bot, message, fmt.Sprintf("✅ Goal v%d saved\n%s", goal.Version, formatMacros(goal.Macros)))
}

func parseGoalArgs(args []string) (models.Macros, bool) {
	if len(args) < 4 || len(args) > 5 {
		return models.Macros{}, false
	}
	vals := make([]float64, 5)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return models.Macros{}, false
		}
		vals[i] = v
	}
	return models.Macros{
		Calories: vals[0],
		Protein:  vals[1],
		Carbs:    vals[2],
		Fat:      vals[3],
		Fiber:    vals[4],
	}, true
}
