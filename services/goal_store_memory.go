// services/goal_store_memory.go
package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"wellness-payout-system/models"
)

// MemoryGoalStore keeps goals in a mutex-guarded map. Used by tests and
// DB-less deployments; same semantics as the gorm store, the mutex is the
// check-and-set.
type MemoryGoalStore struct {
	mu    sync.Mutex
	goals map[string]*models.Goal
}

func NewMemoryGoalStore() *MemoryGoalStore {
	return &MemoryGoalStore{goals: make(map[string]*models.Goal)}
}

func (s *MemoryGoalStore) Create(_ context.Context, goal *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now
	cp := *goal
	s.goals[goal.ID] = &cp
	return nil
}

func (s *MemoryGoalStore) Get(_ context.Context, id string) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[id]
	if !ok {
		return nil, ErrGoalNotFound
	}
	cp := *goal
	return &cp, nil
}

func (s *MemoryGoalStore) List(_ context.Context) ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryGoalStore) ListActive(_ context.Context, now time.Time) ([]models.Goal, error) {
	return s.filter(func(g *models.Goal) bool {
		return !g.IsCompleted && g.VerificationType == models.VerificationAutomatic && !now.After(g.Deadline)
	}), nil
}

func (s *MemoryGoalStore) ListActiveByDataType(_ context.Context, dataType models.HealthDataType, now time.Time) ([]models.Goal, error) {
	return s.filter(func(g *models.Goal) bool {
		return !g.IsCompleted && g.VerificationType == models.VerificationAutomatic &&
			!now.After(g.Deadline) && g.HealthDataType == dataType
	}), nil
}

func (s *MemoryGoalStore) ListExpired(_ context.Context, now time.Time) ([]models.Goal, error) {
	return s.filter(func(g *models.Goal) bool {
		return !g.IsCompleted && now.After(g.Deadline)
	}), nil
}

func (s *MemoryGoalStore) filter(keep func(*models.Goal) bool) []models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Goal
	for _, g := range s.goals {
		if keep(g) {
			out = append(out, *g)
		}
	}
	return out
}

func (s *MemoryGoalStore) Update(_ context.Context, id string, patch GoalPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[id]
	if !ok {
		return ErrGoalNotFound
	}
	if patch.ConsecutiveSuccessDays != nil {
		goal.ConsecutiveSuccessDays = *patch.ConsecutiveSuccessDays
	}
	if patch.LastVerificationAttempt != nil {
		t := *patch.LastVerificationAttempt
		goal.LastVerificationAttempt = &t
	}
	if patch.IsVerified != nil {
		goal.IsVerified = *patch.IsVerified
	}
	goal.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryGoalStore) MarkCompleted(_ context.Context, id string, result models.VerificationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	goal, ok := s.goals[id]
	if !ok {
		return ErrGoalNotFound
	}
	if goal.IsCompleted {
		return nil
	}
	goal.IsCompleted = true
	goal.IsVerified = true
	goal.ConsecutiveSuccessDays = result.ConsecutiveDays
	goal.UpdatedAt = time.Now()
	return nil
}
