package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/metinatakli/seat-reservation-engine/internal/domain"
)

// MemoryLedger keeps seat records in process. It backs unit tests and single
// node development.
type MemoryLedger struct {
	mu      sync.Mutex
	records map[domain.SeatKey]domain.SeatRecord
	holds   map[string]domain.SeatKey
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		records: make(map[domain.SeatKey]domain.SeatRecord),
		holds:   make(map[string]domain.SeatKey),
	}
}

func (m *MemoryLedger) Get(_ context.Context, key domain.SeatKey) (domain.SeatRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.get(key), nil
}

func (m *MemoryLedger) get(key domain.SeatKey) domain.SeatRecord {
	record, ok := m.records[key]
	if !ok {
		return domain.SeatRecord{Key: key, State: domain.Open{}}
	}

	return record
}

func (m *MemoryLedger) GetByHoldID(_ context.Context, holdID string) (domain.SeatRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, ok := m.holds[holdID]
	if !ok {
		return domain.SeatRecord{}, domain.ErrHoldNotFound
	}

	return m.records[key], nil
}

func (m *MemoryLedger) ListByShowtime(_ context.Context, showtimeID int) ([]domain.SeatRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]domain.SeatRecord, 0)
	for key, record := range m.records {
		if key.ShowtimeID == showtimeID {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Key.SeatID < records[j].Key.SeatID
	})

	return records, nil
}

func (m *MemoryLedger) ListExpired(_ context.Context, now time.Time, limit int) ([]domain.SeatRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]domain.SeatRecord, 0)
	for _, record := range m.records {
		if held, ok := record.State.(domain.Held); ok && held.ExpiredAt(now) {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].State.(domain.Held).ExpiresAt.Before(records[j].State.(domain.Held).ExpiresAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

func (m *MemoryLedger) CompareAndSet(_ context.Context, t domain.Transition) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.get(t.Key).Version != t.ExpectedVersion {
		return false, nil
	}

	m.apply(t)

	return true, nil
}

func (m *MemoryLedger) CompareAndSetBatch(_ context.Context, ts []domain.Transition) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range ts {
		if m.get(t.Key).Version != t.ExpectedVersion {
			return false, nil
		}
	}

	for _, t := range ts {
		m.apply(t)
	}

	return true, nil
}

func (m *MemoryLedger) apply(t domain.Transition) {
	prev := m.get(t.Key)
	next := domain.SeatRecord{Key: t.Key, State: t.Next, Version: t.ExpectedVersion + 1}

	if id := prev.HoldID(); id != "" {
		delete(m.holds, id)
	}

	if id := next.HoldID(); id != "" {
		m.holds[id] = t.Key
	}

	m.records[t.Key] = next
}
