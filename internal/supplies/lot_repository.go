package supplies

import (
	"context"

	"github.com/JKilgallen/inventory-manager/internal/ledger"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

// LotRepository reads the lot ledger. It never caches: every call reflects
// the most recent store snapshot and carries its version token.
type LotRepository struct {
	store ledger.Store
}

func NewLotRepository(store ledger.Store) *LotRepository {
	return &LotRepository{store: store}
}

// ActiveLots returns all lots with no removal marker, plus the version of
// the snapshot they were read from.
func (r *LotRepository) ActiveLots(ctx context.Context) ([]models.SupplyLot, ledger.Version, error) {
	snapshot, err := r.store.Supplies(ctx)
	if err != nil {
		return nil, 0, err
	}
	return snapshot.ActiveLots(), snapshot.Version, nil
}

// GroupByKey buckets lots by (inventory, item, location). Pure function of
// its input; computed by callers rather than cached here.
func GroupByKey(lots []models.SupplyLot) map[models.LotKey][]models.SupplyLot {
	grouped := make(map[models.LotKey][]models.SupplyLot)
	for _, lot := range lots {
		grouped[lot.Key()] = append(grouped[lot.Key()], lot)
	}
	return grouped
}
