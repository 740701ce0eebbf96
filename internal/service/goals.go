package service

import (
	"context"
	"fmt"

	"github.com/Kerhoff/mizan/internal/models"
)

// SetGoal stores macros as the user's newest goal version.
func (s *Service) SetGoal(ctx context.Context, userID int64, macros models.Macros) (*models.Goal, error) {
	var v validation
	checkMacros(&v, macros)
	v.check(macros.Calories > 0, "calories must be positive")
	if err := v.err(); err != nil {
		return nil, err
	}

	goal, err := s.Goals.Create(ctx, &models.Goal{UserID: userID, Macros: macros})
	if err != nil {
		return nil, fromRepo(err)
	}

	s.logger.Infof("User %d set goal version %d", userID, goal.Version)
	return goal, nil
}

// CurrentGoal returns the highest goal version.
func (s *Service) CurrentGoal(ctx context.Context, userID int64) (*models.Goal, error) {
	goal, err := s.Goals.GetCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, fmt.Errorf("%w: user %d has no goal", ErrNotFound, userID)
	}
	return goal, nil
}

// GoalHistory lists every goal version, newest first.
func (s *Service) GoalHistory(ctx context.Context, userID int64) ([]*models.Goal, error) {
	return s.Goals.ListByUser(ctx, userID)
}
