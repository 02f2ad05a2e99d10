// services/payout_service.go
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wellness-payout-system/models"
	"wellness-payout-system/workers"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayoutService submits verification claims to the ledger and records the
// resulting transaction, exactly once per goal. It never recomputes
// streaks — eligibility was decided upstream.
type PayoutService struct {
	Store  PayoutStore
	Ledger workers.LedgerClient
	Log    *zap.SugaredLogger

	// Serializes payout attempts per goal within this process so racing
	// cycles can't both reach the ledger. The store's first-writer-wins
	// insert is the second net underneath.
	locks sync.Map // goalID -> *sync.Mutex
}

func NewPayoutService(store PayoutStore, ledger workers.LedgerClient, log *zap.SugaredLogger) *PayoutService {
	return &PayoutService{Store: store, Ledger: ledger, Log: log}
}

// Execute pays out a verified goal. Idempotent per goal ID: an existing
// PayoutRecord is returned as-is, no second claim is submitted. A ledger
// failure returns an error and writes nothing, so the goal stays
// uncompleted and the next cycle retries.
func (s *PayoutService) Execute(ctx context.Context, goal *models.Goal, result models.VerificationResult) (*models.PayoutRecord, error) {
	mu := s.goalLock(goal.ID)
	mu.Lock()
	defer mu.Unlock()

	existing, err := s.Store.Find(ctx, goal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing payout for goal %s: %w", goal.ID, err)
	}
	if existing != nil {
		s.Log.Debugw("payout already executed, returning existing record",
			"goal_id", goal.ID, "tx_ref", existing.TransactionReference)
		return existing, nil
	}

	resp, err := s.Ledger.SubmitClaim(ctx, workers.ClaimRequest{
		GoalID:       goal.ID,
		Amount:       goal.Reward,
		PayerContext: goal.Sponsor,
	})
	if err != nil {
		return nil, fmt.Errorf("ledger claim for goal %s failed: %w", goal.ID, err)
	}

	record := &models.PayoutRecord{
		ID:                   uuid.NewString(),
		GoalID:               goal.ID,
		Amount:               goal.Reward,
		TransactionReference: resp.TransactionReference,
		ExecutedAt:           time.Now().UTC(),
	}
	created, err := s.Store.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to record payout for goal %s: %w", goal.ID, err)
	}
	if !created {
		// Another writer (e.g. a second instance) got there first.
		existing, err := s.Store.Find(ctx, goal.ID)
		if err != nil || existing == nil {
			return nil, fmt.Errorf("payout for goal %s exists but could not be read back: %w", goal.ID, err)
		}
		return existing, nil
	}

	s.Log.Infow("payout executed",
		"goal_id", goal.ID, "slug", goal.Slug, "amount", goal.Reward,
		"tx_ref", resp.TransactionReference)
	return record, nil
}

func (s *PayoutService) goalLock(goalID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(goalID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
