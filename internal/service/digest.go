package service

import (
	"context"
	"time"

	"github.com/Kerhoff/mizan/internal/models"
	"github.com/Kerhoff/mizan/internal/nutrition"
)

// DigestCallback delivers a day's plan to a Telegram chat.
type DigestCallback func(chatID int64, plan *models.MealPlan)

// StartDigestScheduler sends every linked user their plan once a day, on the
// first check after hour:00 UTC. It blocks until the context is cancelled,
// so it should be launched in a separate goroutine.
func (s *Service) StartDigestScheduler(ctx context.Context, hour int, callback DigestCallback) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	s.logger.WithField("hour", hour).Info("Daily digest scheduler started")

	var lastSent time.Time
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Daily digest scheduler stopped")
			return
		case now := <-ticker.C:
			now = now.UTC()
			today := nutrition.DayStart(now)
			if now.Hour() < hour || today.Equal(lastSent) {
				continue
			}
			lastSent = today
			s.SendDailyDigest(ctx, today, callback)
		}
	}
}

// SendDailyDigest fires the callback for each linked user who has a
// non-empty plan on date and returns how many digests went out. Failures for
// one user are logged and do not stop the others.
func (s *Service) SendDailyDigest(ctx context.Context, date time.Time, callback DigestCallback) int {
	users, err := s.Users.ListLinked(ctx)
	if err != nil {
		s.logger.Errorf("Failed to list linked users: %v", err)
		return 0
	}

	sent := 0
	for _, u := range users {
		if u.TelegramID == nil {
			continue
		}

		plan, err := s.Plans.GetByUserAndDate(ctx, u.ID, date)
		if err != nil {
			s.logger.Errorf("Failed to load plan for user %d: %v", u.ID, err)
			continue
		}
		if plan == nil || len(plan.Entries) == 0 {
			continue
		}

		callback(*u.TelegramID, plan)
		sent++
	}

	s.logger.Infof("Sent %d daily digests for %s", sent, date.Format(nutrition.DateLayout))
	return sent
}
