package ledger

import (
	"context"
	"time"

	"github.com/JKilgallen/inventory-manager/pkg/models"
)

// Version tags one snapshot of the supplies table. Every commit that touches
// supply lots bumps it; a commit built against a stale version is rejected
// with ConcurrentModificationError instead of overwriting concurrent changes.
type Version int64

const SuppliesTable = "supply_lots"

// SupplySnapshot is a full read of the supplies table plus the version it
// was read at.
type SupplySnapshot struct {
	Lots    []models.SupplyLot
	Version Version
}

// ActiveLots returns the lots with no removal marker.
func (s *SupplySnapshot) ActiveLots() []models.SupplyLot {
	active := make([]models.SupplyLot, 0, len(s.Lots))
	for _, lot := range s.Lots {
		if lot.Active() {
			active = append(active, lot)
		}
	}
	return active
}

// Removal marks one lot removed. Lots never move and are never deleted;
// they only gain this marker, exactly once.
type Removal struct {
	LotID     int
	RemovedAt time.Time
	RemovedBy string
}

// Update is one atomic ledger mutation: new lot rows, removal markers, and
// appended audit records all commit together against BaseVersion, or not
// at all.
type Update struct {
	BaseVersion Version
	AddLots     []models.SupplyLot
	Removals    []Removal
	Audits      []models.AuditRecord
}

func (u *Update) Empty() bool {
	return len(u.AddLots) == 0 && len(u.Removals) == 0 && len(u.Audits) == 0
}

// Store is the durable ledger behind the core. Reads return full snapshots;
// the only write path is Commit, which performs the version check shared by
// every mutating operation.
type Store interface {
	Supplies(ctx context.Context) (*SupplySnapshot, error)
	Limits(ctx context.Context) ([]models.OperationalLimit, error)
	Inventories(ctx context.Context) ([]models.Inventory, error)
	Audits(ctx context.Context) ([]models.AuditRecord, error)

	// Commit applies the update if its BaseVersion matches the store's
	// current supplies version and returns the new version. An empty update
	// is a no-op and returns the current version unchanged. On any failure
	// the ledger is left exactly as it was.
	Commit(ctx context.Context, update Update) (Version, error)
}
