// services/goal_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"wellness-payout-system/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

var validate = validator.New()

// GoalRequest is the goal creation payload supplied by the UI. Conditions
// stay free text — that's the schema contract the condition parser honors.
type GoalRequest struct {
	Title            string    `json:"title" validate:"required"`
	Description      string    `json:"description"`
	HealthDataType   string    `json:"health_data_type" validate:"required,oneof=sleep steps recovery strain heart_rate weight"`
	TargetValue      float64   `json:"target_value" validate:"required,gt=0"`
	Conditions       []string  `json:"conditions" validate:"omitempty,dive,required"`
	Reward           float64   `json:"reward" validate:"required,gt=0"`
	Deadline         time.Time `json:"deadline" validate:"required"`
	Sponsor          string    `json:"sponsor" validate:"required"`
	VerificationType string    `json:"verification_type" validate:"omitempty,oneof=automatic manual"`
}

// GoalService owns goal creation and read access for the HTTP surface.
type GoalService struct {
	Store GoalStore
	Log   *zap.SugaredLogger
}

func NewGoalService(store GoalStore, log *zap.SugaredLogger) *GoalService {
	return &GoalService{Store: store, Log: log}
}

func ValidateGoalRequest(req *GoalRequest) error {
	return validate.Struct(req)
}

// CreateGoal validates and persists a new goal. The consecutive-day
// requirement is parsed out of the conditions once, here.
func (s *GoalService) CreateGoal(ctx context.Context, req *GoalRequest) (*models.Goal, error) {
	if err := ValidateGoalRequest(req); err != nil {
		return nil, err
	}
	if req.Deadline.Before(time.Now()) {
		return nil, fmt.Errorf("deadline must be in the future")
	}

	vt := models.VerificationType(req.VerificationType)
	if vt == "" {
		vt = models.VerificationAutomatic
	}

	goal := &models.Goal{
		ID:                      uuid.NewString(),
		Slug:                    slug.Make(req.Title),
		Title:                   req.Title,
		Description:             req.Description,
		HealthDataType:          models.HealthDataType(req.HealthDataType),
		TargetValue:             req.TargetValue,
		Conditions:              req.Conditions,
		RequiredConsecutiveDays: RequiredDays(req.Conditions),
		Reward:                  req.Reward,
		Deadline:                req.Deadline,
		Sponsor:                 req.Sponsor,
		VerificationType:        vt,
	}
	if err := s.Store.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.Log.Infow("goal created", "goal_id", goal.ID, "slug", goal.Slug,
		"data_type", goal.HealthDataType, "reward", goal.Reward, "sponsor", goal.Sponsor)
	return goal, nil
}

func (s *GoalService) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	return s.Store.Get(ctx, id)
}

func (s *GoalService) ListGoals(ctx context.Context) ([]models.Goal, error) {
	return s.Store.List(ctx)
}

func (s *GoalService) ListExpiredGoals(ctx context.Context) ([]models.Goal, error) {
	return s.Store.ListExpired(ctx, time.Now().UTC())
}
