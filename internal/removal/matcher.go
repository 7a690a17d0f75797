package removal

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/JKilgallen/inventory-manager/internal/ledger"
	custom_error "github.com/JKilgallen/inventory-manager/pkg/errors"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

// Matcher selects which specific lots satisfy a removal request and commits
// their removal markers against the snapshot the selection was made from.
type Matcher struct {
	store ledger.Store
}

func NewMatcher(store ledger.Store) *Matcher {
	return &Matcher{store: store}
}

// Request asks for quantity lots of an item to be marked removed. With an
// expiration date the pool is exactly the lots carrying that date; without
// one, the soonest-to-expire active lots are taken first.
type Request struct {
	Inventory  string
	Item       string
	Quantity   int
	Expiration *time.Time
	Actor      string
}

type Result struct {
	RemovedLotIDs []int          `json:"removed_lot_ids"`
	Version       ledger.Version `json:"version"`
}

// Remove reads the current snapshot, plans the selection, and commits it.
// The commit carries the snapshot's version, so a ledger changed by another
// operator in between fails with ConcurrentModificationError instead of
// silently overwriting their work.
func (m *Matcher) Remove(ctx context.Context, req Request) (*Result, error) {
	snapshot, err := m.store.Supplies(ctx)
	if err != nil {
		return nil, err
	}

	removals, err := Plan(snapshot.ActiveLots(), req, time.Now())
	if err != nil {
		return nil, err
	}
	if len(removals) == 0 {
		// Empty selection is a no-op, never an error.
		return &Result{Version: snapshot.Version}, nil
	}

	version, err := m.store.Commit(ctx, ledger.Update{
		BaseVersion: snapshot.Version,
		Removals:    removals,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Version: version}
	for _, removal := range removals {
		result.RemovedLotIDs = append(result.RemovedLotIDs, removal.LotID)
	}
	return result, nil
}

// Plan selects the lots a request removes, without side effects. The audit
// reconciler plans through this same function, so manual removal and audit
// removal share one selection policy.
func Plan(activeLots []models.SupplyLot, req Request, now time.Time) ([]ledger.Removal, error) {
	if req.Quantity < 0 {
		return nil, fmt.Errorf("invalid removal quantity %d", req.Quantity)
	}
	if req.Quantity == 0 {
		return nil, nil
	}

	pool := make([]models.SupplyLot, 0, len(activeLots))
	for _, lot := range activeLots {
		if lot.Inventory != req.Inventory || lot.Item != req.Item {
			continue
		}
		if req.Expiration != nil && !sameExpiration(lot.Expiration, req.Expiration) {
			continue
		}
		pool = append(pool, lot)
	}

	if len(pool) < req.Quantity {
		return nil, &custom_error.InsufficientStockError{
			Inventory:  req.Inventory,
			Item:       req.Item,
			Expiration: req.Expiration,
			Requested:  req.Quantity,
			Available:  len(pool),
		}
	}

	if req.Expiration == nil {
		// Soonest-to-expire first; lots with unknown expiration last.
		sort.SliceStable(pool, func(i, j int) bool {
			a, b := pool[i].Expiration, pool[j].Expiration
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	}

	removals := make([]ledger.Removal, 0, req.Quantity)
	for _, lot := range pool[:req.Quantity] {
		removals = append(removals, ledger.Removal{
			LotID:     lot.ID,
			RemovedAt: now,
			RemovedBy: req.Actor,
		})
	}
	return removals, nil
}

func sameExpiration(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
