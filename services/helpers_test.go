package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"wellness-payout-system/workers"
)

func dateNDaysAgo(n int) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format("2006-01-02")
}

// fakeVendor serves canned raw payloads and records how it was called.
type fakeVendor struct {
	authenticated bool
	records       []map[string]any
	err           error
	lastDays      atomic.Int64
}

func (v *fakeVendor) IsAuthenticated(context.Context) bool { return v.authenticated }

func (v *fakeVendor) GetAllHealthData(_ context.Context, days int) ([]map[string]any, error) {
	v.lastDays.Store(int64(days))
	if v.err != nil {
		return nil, v.err
	}
	return v.records, nil
}

// fakeLedger counts claims and can be told to fail the first N submissions,
// or every submission for one specific goal.
type fakeLedger struct {
	submissions atomic.Int64
	failures    atomic.Int64 // remaining submissions to fail
	failGoalID  string
}

func (l *fakeLedger) SubmitClaim(_ context.Context, claim workers.ClaimRequest) (*workers.ClaimResponse, error) {
	if l.failGoalID != "" && claim.GoalID == l.failGoalID {
		return nil, fmt.Errorf("ledger rejected goal %s", claim.GoalID)
	}
	if l.failures.Load() > 0 {
		l.failures.Add(-1)
		return nil, fmt.Errorf("ledger unavailable")
	}
	n := l.submissions.Add(1)
	return &workers.ClaimResponse{
		TransactionReference: fmt.Sprintf("tx-%s-%d", claim.GoalID, n),
	}, nil
}

// rawSleepEntries builds flat vendor entries with sleep scores,
// most-recent-first.
func rawSleepEntries(scores ...float64) []map[string]any {
	entries := make([]map[string]any, len(scores))
	for i, s := range scores {
		entries[i] = map[string]any{"date": dateNDaysAgo(i), "sleep_score": s}
	}
	return entries
}
