package recordsRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookingagent/models"

	"github.com/google/uuid"
)

type memoryRecordRepo struct {
	mu      sync.RWMutex
	records map[string]models.BookingRecord
}

// NewMemoryRecordRepo returns an in-process BookingRecordRepository.
func NewMemoryRecordRepo() BookingRecordRepository {
	return &memoryRecordRepo{records: make(map[string]models.BookingRecord)}
}

func (r *memoryRecordRepo) Create(_ context.Context, record models.BookingRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	r.mu.Lock()
	r.records[record.ID] = record
	r.mu.Unlock()
	return record.ID, nil
}

func (r *memoryRecordRepo) GetByID(_ context.Context, id string) (*models.BookingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &record, nil
}

func (r *memoryRecordRepo) GetBySessionID(_ context.Context, sessionID string) ([]models.BookingRecord, error) {
	return r.collect(func(rec models.BookingRecord) bool { return rec.SessionID == sessionID }, 0), nil
}

func (r *memoryRecordRepo) List(_ context.Context, limit int64) ([]models.BookingRecord, error) {
	return r.collect(func(models.BookingRecord) bool { return true }, limit), nil
}

// collect returns matching records newest first.
func (r *memoryRecordRepo) collect(keep func(models.BookingRecord) bool, limit int64) []models.BookingRecord {
	r.mu.RLock()
	out := []models.BookingRecord{}
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

func (r *memoryRecordRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}
