// services/goal_store.go
package services

import (
	"context"
	"errors"
	"time"

	"wellness-payout-system/models"

	"gorm.io/gorm"
)

var ErrGoalNotFound = errors.New("goal not found")

// GoalPatch is an atomic partial update. Nil fields are left untouched.
type GoalPatch struct {
	ConsecutiveSuccessDays  *int
	LastVerificationAttempt *time.Time
	IsVerified              *bool
}

// GoalStore is the single source of truth for goal state. The orchestrator
// and payout path go through it for every mutation; nothing else writes
// goals. Implementations must make Update and MarkCompleted safe under
// concurrent callers, and MarkCompleted idempotent (second call on a
// completed goal is a no-op).
type GoalStore interface {
	Create(ctx context.Context, goal *models.Goal) error
	Get(ctx context.Context, id string) (*models.Goal, error)
	List(ctx context.Context) ([]models.Goal, error)

	// ListActive returns automatic, not-yet-completed goals whose deadline
	// has not passed. Expired goals are never returned — they go inert, no
	// status transition is written.
	ListActive(ctx context.Context, now time.Time) ([]models.Goal, error)
	ListActiveByDataType(ctx context.Context, dataType models.HealthDataType, now time.Time) ([]models.Goal, error)

	// ListExpired returns goals past their deadline that never completed,
	// so the expired-but-unmet set stays observable.
	ListExpired(ctx context.Context, now time.Time) ([]models.Goal, error)

	Update(ctx context.Context, id string, patch GoalPatch) error
	MarkCompleted(ctx context.Context, id string, result models.VerificationResult) error
}

// GormGoalStore persists goals in postgres via gorm.
type GormGoalStore struct {
	DB *gorm.DB
}

func NewGormGoalStore(db *gorm.DB) *GormGoalStore {
	return &GormGoalStore{DB: db}
}

func (s *GormGoalStore) Create(ctx context.Context, goal *models.Goal) error {
	return s.DB.WithContext(ctx).Create(goal).Error
}

func (s *GormGoalStore) Get(ctx context.Context, id string) (*models.Goal, error) {
	var goal models.Goal
	err := s.DB.WithContext(ctx).First(&goal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *GormGoalStore) List(ctx context.Context) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&goals).Error
	return goals, err
}

func (s *GormGoalStore) ListActive(ctx context.Context, now time.Time) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.DB.WithContext(ctx).
		Where("is_completed = ? AND verification_type = ? AND deadline >= ?",
			false, models.VerificationAutomatic, now).
		Find(&goals).Error
	return goals, err
}

func (s *GormGoalStore) ListActiveByDataType(ctx context.Context, dataType models.HealthDataType, now time.Time) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.DB.WithContext(ctx).
		Where("is_completed = ? AND verification_type = ? AND deadline >= ? AND health_data_type = ?",
			false, models.VerificationAutomatic, now, dataType).
		Find(&goals).Error
	return goals, err
}

func (s *GormGoalStore) ListExpired(ctx context.Context, now time.Time) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.DB.WithContext(ctx).
		Where("is_completed = ? AND deadline < ?", false, now).
		Find(&goals).Error
	return goals, err
}

func (s *GormGoalStore) Update(ctx context.Context, id string, patch GoalPatch) error {
	updates := map[string]any{}
	if patch.ConsecutiveSuccessDays != nil {
		updates["consecutive_success_days"] = *patch.ConsecutiveSuccessDays
	}
	if patch.LastVerificationAttempt != nil {
		updates["last_verification_attempt"] = *patch.LastVerificationAttempt
	}
	if patch.IsVerified != nil {
		updates["is_verified"] = *patch.IsVerified
	}
	if len(updates) == 0 {
		return nil
	}
	res := s.DB.WithContext(ctx).Model(&models.Goal{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// MarkCompleted flips the goal to its terminal state. The WHERE guard on
// is_completed is the check-and-set: when two cycles race, exactly one
// update lands and the loser sees an already-completed goal, which is a
// no-op, not an error.
func (s *GormGoalStore) MarkCompleted(ctx context.Context, id string, result models.VerificationResult) error {
	res := s.DB.WithContext(ctx).Model(&models.Goal{}).
		Where("id = ? AND is_completed = ?", id, false).
		Updates(map[string]any{
			"is_completed":             true,
			"is_verified":              true,
			"consecutive_success_days": result.ConsecutiveDays,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race or already completed — confirm the goal exists.
		_, err := s.Get(ctx, id)
		return err
	}
	return nil
}
