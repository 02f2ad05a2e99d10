// services/verification_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"wellness-payout-system/models"
	"wellness-payout-system/utils"
	"wellness-payout-system/workers"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// VerificationConfig tunes the orchestrator. Zero values fall back to the
// defaults below.
type VerificationConfig struct {
	Interval            time.Duration // scheduled cycle cadence
	LookbackDays        int           // record window for full cycles
	WebhookLookbackDays int           // narrower window for webhook cycles
	CycleTimeout        time.Duration // upper bound on one scheduled cycle
}

const (
	defaultInterval            = time.Hour
	defaultLookbackDays        = 30
	defaultWebhookLookbackDays = 7
	defaultCycleTimeout        = 5 * time.Minute
)

// VerificationStatus is the engine's externally visible state.
type VerificationStatus struct {
	IsRunning           bool          `json:"is_running"`
	Interval            time.Duration `json:"interval"`
	LookbackDays        int           `json:"lookback_days"`
	WebhookLookbackDays int           `json:"webhook_lookback_days"`
}

// VerificationService coordinates fetch → evaluate → decide → payout →
// persist for every active goal. Three trigger paths funnel into the same
// cycle: the gocron schedule, vendor webhooks (narrowed by data type), and
// manual calls. All three may race on the same goals; the goal store's
// check-and-set and the payout store's unique insert keep that safe.
type VerificationService struct {
	Goals    GoalStore
	Payouts  *PayoutService
	Vendor   workers.VendorClient
	Archiver utils.ClaimArchiver
	Clock    clockwork.Clock
	Log      *zap.SugaredLogger

	cfg VerificationConfig

	mu      sync.Mutex
	sched   gocron.Scheduler
	running bool
}

func NewVerificationService(goals GoalStore, payouts *PayoutService, vendor workers.VendorClient, archiver utils.ClaimArchiver, clock clockwork.Clock, log *zap.SugaredLogger, cfg VerificationConfig) *VerificationService {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = defaultLookbackDays
	}
	if cfg.WebhookLookbackDays <= 0 {
		cfg.WebhookLookbackDays = defaultWebhookLookbackDays
	}
	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = defaultCycleTimeout
	}
	if archiver == nil {
		archiver = utils.NoopArchiver{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &VerificationService{
		Goals:    goals,
		Payouts:  payouts,
		Vendor:   vendor,
		Archiver: archiver,
		Clock:    clock,
		Log:      log,
		cfg:      cfg,
	}
}

// Start launches the scheduled cycle. Idempotent — a second Start on a
// running engine is a no-op.
func (s *VerificationService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	sched, err := gocron.NewScheduler(gocron.WithClock(s.Clock))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.cfg.Interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.CycleTimeout)
			defer cancel()
			if err := s.RunCycle(ctx); err != nil {
				s.Log.Errorw("scheduled verification cycle finished with errors", "error", err)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule verification job: %w", err)
	}

	sched.Start()
	s.sched = sched
	s.running = true
	s.Log.Infow("verification engine started", "interval", s.cfg.Interval, "lookback_days", s.cfg.LookbackDays)
	return nil
}

// Stop prevents new scheduled cycles from starting. An in-flight cycle runs
// to completion.
func (s *VerificationService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	if err := s.sched.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	s.sched = nil
	s.running = false
	s.Log.Info("verification engine stopped")
	return nil
}

func (s *VerificationService) Status() VerificationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return VerificationStatus{
		IsRunning:           s.running,
		Interval:            s.cfg.Interval,
		LookbackDays:        s.cfg.LookbackDays,
		WebhookLookbackDays: s.cfg.WebhookLookbackDays,
	}
}

// RunCycle verifies every active goal against the full lookback window.
// Used by both the schedule and the manual trigger.
func (s *VerificationService) RunCycle(ctx context.Context) error {
	return s.runCycle(ctx, "", s.cfg.LookbackDays)
}

// RunCycleForDataType verifies only goals of one data type over the short
// webhook window — fresh vendor events don't need a 30-day refetch.
func (s *VerificationService) RunCycleForDataType(ctx context.Context, dataType models.HealthDataType) error {
	return s.runCycle(ctx, dataType, s.cfg.WebhookLookbackDays)
}

func (s *VerificationService) runCycle(ctx context.Context, dataType models.HealthDataType, lookbackDays int) error {
	if !s.Vendor.IsAuthenticated(ctx) {
		s.Log.Warn("vendor not authenticated, skipping verification cycle")
		return nil
	}

	raw, err := s.Vendor.GetAllHealthData(ctx, lookbackDays)
	if err != nil {
		// Treated as "no data available", not fatal — the next cycle retries.
		s.Log.Warnw("failed to fetch vendor data, skipping cycle", "error", err)
		return nil
	}
	records := NormalizeRecords(raw)
	if len(records) == 0 {
		s.Log.Infow("no usable health records in vendor payload, skipping cycle", "raw_entries", len(raw))
		return nil
	}

	now := s.Clock.Now().UTC()
	var goals []models.Goal
	if dataType == "" {
		goals, err = s.Goals.ListActive(ctx, now)
	} else {
		goals, err = s.Goals.ListActiveByDataType(ctx, dataType, now)
	}
	if err != nil {
		// Store unreachable aborts the whole cycle; the next tick retries.
		return fmt.Errorf("failed to list active goals: %w", err)
	}
	if len(goals) == 0 {
		return nil
	}

	s.Log.Infow("verification cycle running", "goals", len(goals), "records", len(records), "data_type", string(dataType))

	var errs []error
	for i := range goals {
		if err := s.verifyGoal(ctx, &goals[i], records, now); err != nil {
			// One goal's failure never aborts the batch.
			s.Log.Errorw("goal verification failed", "goal_id", goals[i].ID, "slug", goals[i].Slug, "error", err)
			errs = append(errs, fmt.Errorf("goal %s: %w", goals[i].ID, err))
		}
	}
	return errors.Join(errs...)
}

// verifyGoal runs one goal through evaluate → persist → payout → complete.
// Panics in evaluation are contained here so a single bad goal can't take
// down the batch.
func (s *VerificationService) verifyGoal(ctx context.Context, goal *models.Goal, records []models.HealthRecord, now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during verification: %v", r)
		}
	}()

	streak := EvaluateStreak(records, goal.HealthDataType, goal.TargetValue, goal.Direction())
	required := RequiredDays(goal.Conditions)
	if required == 0 {
		s.Log.Warnw("goal has no consecutive-day condition, any successful evaluation completes it",
			"goal_id", goal.ID, "slug", goal.Slug)
	}

	result := models.VerificationResult{
		GoalID:          goal.ID,
		IsSuccessful:    streak >= required,
		ConsecutiveDays: streak,
		Timestamp:       now,
	}

	// The attempt timestamp and streak count are persisted win or lose —
	// they are the user-visible proof the engine looked at this goal.
	attempt := now
	patch := GoalPatch{
		ConsecutiveSuccessDays:  &streak,
		LastVerificationAttempt: &attempt,
	}
	if err := s.Goals.Update(ctx, goal.ID, patch); err != nil {
		return fmt.Errorf("failed to persist verification attempt: %w", err)
	}

	if !result.IsSuccessful {
		s.Log.Debugw("goal not yet satisfied", "goal_id", goal.ID, "streak", streak, "required", required)
		return nil
	}
	if goal.IsCompleted {
		return nil
	}

	record, err := s.Payouts.Execute(ctx, goal, result)
	if err != nil {
		// Goal stays uncompleted; the streak is already persisted so the
		// next cycle retries the payout without needing new data.
		return fmt.Errorf("payout failed, will retry next cycle: %w", err)
	}
	if err := s.Goals.MarkCompleted(ctx, goal.ID, result); err != nil {
		return fmt.Errorf("failed to mark goal completed: %w", err)
	}

	s.Log.Infow("goal completed", "goal_id", goal.ID, "slug", goal.Slug,
		"streak", streak, "required", required, "tx_ref", record.TransactionReference)
	s.archiveClaim(goal, result, record)
	return nil
}

// archiveClaim snapshots the completed claim to the archive bucket.
// Fire-and-forget: failures are logged and never touch goal state.
func (s *VerificationService) archiveClaim(goal *models.Goal, result models.VerificationResult, record *models.PayoutRecord) {
	key := fmt.Sprintf("claims/%s-%s.json", goal.Slug, goal.ID)
	payload := map[string]any{
		"goal":   goal,
		"result": result,
		"payout": record,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Archiver.ArchiveClaim(ctx, key, payload); err != nil {
			s.Log.Warnw("failed to archive claim snapshot", "goal_id", goal.ID, "error", err)
		}
	}()
}
