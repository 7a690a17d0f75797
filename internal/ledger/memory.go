package ledger

import (
	"context"
	"fmt"
	"sync"

	custom_error "github.com/JKilgallen/inventory-manager/pkg/errors"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

// MemoryStore is an in-memory Store used by tests and by
// LEDGER_BACKEND=memory for local development. Reads hand out copies so
// callers can never mutate shared state behind the version check.
type MemoryStore struct {
	mu          sync.Mutex
	lots        []models.SupplyLot
	limits      []models.OperationalLimit
	inventories []models.Inventory
	audits      []models.AuditRecord
	version     Version
	nextLotID   int
	nextAuditID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextLotID: 1, nextAuditID: 1}
}

// Seed loads initial data, assigning lot IDs where missing. Seeding bumps
// the version like any other write.
func (s *MemoryStore) Seed(lots []models.SupplyLot, limits []models.OperationalLimit, inventories []models.Inventory) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, lot := range lots {
		if lot.ID == 0 {
			lot.ID = s.nextLotID
		}
		if lot.ID >= s.nextLotID {
			s.nextLotID = lot.ID + 1
		}
		s.lots = append(s.lots, lot)
	}
	s.limits = append(s.limits, limits...)
	s.inventories = append(s.inventories, inventories...)
	s.version++
}

func (s *MemoryStore) Supplies(_ context.Context) (*SupplySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &SupplySnapshot{
		Lots:    append([]models.SupplyLot(nil), s.lots...),
		Version: s.version,
	}, nil
}

func (s *MemoryStore) Limits(_ context.Context) ([]models.OperationalLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.OperationalLimit(nil), s.limits...), nil
}

func (s *MemoryStore) Inventories(_ context.Context) ([]models.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.Inventory(nil), s.inventories...), nil
}

func (s *MemoryStore) Audits(_ context.Context) ([]models.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.AuditRecord(nil), s.audits...), nil
}

func (s *MemoryStore) Commit(_ context.Context, update Update) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if update.Empty() {
		return s.version, nil
	}

	if update.BaseVersion != s.version {
		return 0, &custom_error.ConcurrentModificationError{
			Table:    SuppliesTable,
			Expected: int64(update.BaseVersion),
			Actual:   int64(s.version),
		}
	}

	// Stage everything on copies so a bad removal leaves the store untouched.
	lots := append([]models.SupplyLot(nil), s.lots...)
	nextLotID := s.nextLotID

	index := make(map[int]int, len(lots))
	for i, lot := range lots {
		index[lot.ID] = i
	}

	for _, removal := range update.Removals {
		i, ok := index[removal.LotID]
		if !ok {
			return 0, fmt.Errorf("cannot remove lot %d: no such lot", removal.LotID)
		}
		if !lots[i].Active() {
			return 0, fmt.Errorf("cannot remove lot %d: already removed", removal.LotID)
		}
		removedAt := removal.RemovedAt
		removedBy := removal.RemovedBy
		lots[i].RemovedAt = &removedAt
		lots[i].RemovedBy = &removedBy
	}

	for _, lot := range update.AddLots {
		lot.ID = nextLotID
		nextLotID++
		lots = append(lots, lot)
	}

	audits := append([]models.AuditRecord(nil), s.audits...)
	nextAuditID := s.nextAuditID
	for _, record := range update.Audits {
		record.ID = nextAuditID
		nextAuditID++
		audits = append(audits, record)
	}

	s.lots = lots
	s.audits = audits
	s.nextLotID = nextLotID
	s.nextAuditID = nextAuditID
	s.version++

	return s.version, nil
}
