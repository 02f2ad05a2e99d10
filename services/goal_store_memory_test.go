package services

import (
	"context"
	"testing"
	"time"

	"wellness-payout-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGoal(dataType models.HealthDataType, deadline time.Time) *models.Goal {
	return &models.Goal{
		ID:               uuid.NewString(),
		Slug:             "test-goal",
		Title:            "Test Goal",
		HealthDataType:   dataType,
		TargetValue:      80,
		Conditions:       []string{"consecutive_nights >= 3"},
		Reward:           50,
		Deadline:         deadline,
		Sponsor:          "sponsor-1",
		VerificationType: models.VerificationAutomatic,
	}
}

func TestListActiveFilters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryGoalStore()
	now := time.Now().UTC()

	active := newTestGoal(models.DataTypeSleep, now.Add(24*time.Hour))
	expired := newTestGoal(models.DataTypeSleep, now.Add(-24*time.Hour))
	manual := newTestGoal(models.DataTypeSleep, now.Add(24*time.Hour))
	manual.VerificationType = models.VerificationManual
	completed := newTestGoal(models.DataTypeSleep, now.Add(24*time.Hour))
	completed.IsCompleted = true
	completed.IsVerified = true

	for _, g := range []*models.Goal{active, expired, manual, completed} {
		require.NoError(t, store.Create(ctx, g))
	}

	got, err := store.ListActive(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, active.ID, got[0].ID)

	// The expired-but-unmet goal is observable separately, never active.
	exp, err := store.ListExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, exp, 1)
	assert.Equal(t, expired.ID, exp[0].ID)
}

func TestListActiveByDataType(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryGoalStore()
	now := time.Now().UTC()

	sleep := newTestGoal(models.DataTypeSleep, now.Add(24*time.Hour))
	steps := newTestGoal(models.DataTypeSteps, now.Add(24*time.Hour))
	require.NoError(t, store.Create(ctx, sleep))
	require.NoError(t, store.Create(ctx, steps))

	got, err := store.ListActiveByDataType(ctx, models.DataTypeSteps, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, steps.ID, got[0].ID)
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryGoalStore()
	goal := newTestGoal(models.DataTypeSleep, time.Now().Add(24*time.Hour))
	require.NoError(t, store.Create(ctx, goal))

	days := 4
	attempt := time.Now().UTC()
	require.NoError(t, store.Update(ctx, goal.ID, GoalPatch{
		ConsecutiveSuccessDays:  &days,
		LastVerificationAttempt: &attempt,
	}))

	got, err := store.Get(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.ConsecutiveSuccessDays)
	require.NotNil(t, got.LastVerificationAttempt)
	assert.False(t, got.IsVerified, "untouched field must stay untouched")
	assert.False(t, got.IsCompleted)
}

func TestUpdateUnknownGoal(t *testing.T) {
	store := NewMemoryGoalStore()
	days := 1
	err := store.Update(context.Background(), "nope", GoalPatch{ConsecutiveSuccessDays: &days})
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestMarkCompletedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryGoalStore()
	goal := newTestGoal(models.DataTypeSleep, time.Now().Add(24*time.Hour))
	require.NoError(t, store.Create(ctx, goal))

	result := models.VerificationResult{GoalID: goal.ID, IsSuccessful: true, ConsecutiveDays: 3, Timestamp: time.Now()}
	require.NoError(t, store.MarkCompleted(ctx, goal.ID, result))

	// Second call with a different streak count must be a no-op.
	second := result
	second.ConsecutiveDays = 99
	require.NoError(t, store.MarkCompleted(ctx, goal.ID, second))

	got, err := store.Get(ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.True(t, got.IsVerified, "completed implies verified")
	assert.Equal(t, 3, got.ConsecutiveSuccessDays)
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryGoalStore()
	goal := newTestGoal(models.DataTypeSleep, time.Now().Add(24*time.Hour))
	require.NoError(t, store.Create(ctx, goal))

	got, err := store.Get(ctx, goal.ID)
	require.NoError(t, err)
	got.IsCompleted = true

	again, err := store.Get(ctx, goal.ID)
	require.NoError(t, err)
	assert.False(t, again.IsCompleted, "mutating a read result must not leak into the store")
}
