// services/payout_store.go
package services

import (
	"context"
	"errors"
	"sync"

	"wellness-payout-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PayoutStore persists payout records. Create must be first-writer-wins on
// GoalID: when a record already exists the new one is discarded and created
// comes back false. That plus the unique index is what makes "exactly one
// payout per goal" hold even if two processes race.
type PayoutStore interface {
	// Find returns the payout for a goal, or nil if none exists yet.
	Find(ctx context.Context, goalID string) (*models.PayoutRecord, error)
	// Create inserts the record unless one already exists for the goal.
	Create(ctx context.Context, record *models.PayoutRecord) (created bool, err error)
	List(ctx context.Context) ([]models.PayoutRecord, error)
}

// GormPayoutStore relies on the unique goal_id index plus an
// ON CONFLICT DO NOTHING insert.
type GormPayoutStore struct {
	DB *gorm.DB
}

func NewGormPayoutStore(db *gorm.DB) *GormPayoutStore {
	return &GormPayoutStore{DB: db}
}

func (s *GormPayoutStore) Find(ctx context.Context, goalID string) (*models.PayoutRecord, error) {
	var rec models.PayoutRecord
	err := s.DB.WithContext(ctx).First(&rec, "goal_id = ?", goalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *GormPayoutStore) Create(ctx context.Context, record *models.PayoutRecord) (bool, error) {
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "goal_id"}},
			DoNothing: true,
		}).
		Create(record)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormPayoutStore) List(ctx context.Context) ([]models.PayoutRecord, error) {
	var recs []models.PayoutRecord
	err := s.DB.WithContext(ctx).Order("executed_at DESC").Find(&recs).Error
	return recs, err
}

// MemoryPayoutStore is the in-memory counterpart for tests and DB-less runs.
type MemoryPayoutStore struct {
	mu      sync.Mutex
	records map[string]*models.PayoutRecord // keyed by goal ID
}

func NewMemoryPayoutStore() *MemoryPayoutStore {
	return &MemoryPayoutStore{records: make(map[string]*models.PayoutRecord)}
}

func (s *MemoryPayoutStore) Find(_ context.Context, goalID string) (*models.PayoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[goalID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryPayoutStore) Create(_ context.Context, record *models.PayoutRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.GoalID]; ok {
		return false, nil
	}
	cp := *record
	s.records[record.GoalID] = &cp
	return true, nil
}

func (s *MemoryPayoutStore) List(_ context.Context) ([]models.PayoutRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PayoutRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r)
	}
	return out, nil
}
