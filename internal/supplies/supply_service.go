package supplies

import (
	"context"
	"time"

	"github.com/JKilgallen/inventory-manager/internal/ledger"
	"github.com/JKilgallen/inventory-manager/internal/limits"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

// Service appends new lots to the ledger. One request for quantity N becomes
// N rows: each physical unit is its own lot with its own lifecycle.
type Service struct {
	store      ledger.Store
	limitsRepo *limits.Repository
}

func NewService(store ledger.Store, limitsRepo *limits.Repository) *Service {
	return &Service{store: store, limitsRepo: limitsRepo}
}

// AddResult reports the key's active quantity around the addition so the
// caller can display the before/after against the configured bounds.
type AddResult struct {
	Added          int            `json:"added"`
	QuantityBefore int            `json:"quantity_before"`
	QuantityAfter  int            `json:"quantity_after"`
	MinQuantity    int            `json:"min_quantity"`
	MaxQuantity    int            `json:"max_quantity"`
	Unconfigured   bool           `json:"unconfigured,omitempty"`
	Version        ledger.Version `json:"version"`
}

func (s *Service) AddLots(ctx context.Context, req AddRequest, actor string) (*AddResult, error) {
	expiration, err := models.ParseExpiration(req.Expiration)
	if err != nil {
		return nil, err
	}

	// Surface limit configuration defects before writing anything.
	configured, err := s.limitsRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.store.Supplies(ctx)
	if err != nil {
		return nil, err
	}

	key := models.LotKey{Inventory: req.Inventory, Item: req.Item, Location: req.Location}
	result := &AddResult{
		Added:        req.Quantity,
		Unconfigured: true,
		Version:      snapshot.Version,
	}
	for _, limit := range configured {
		if limit.Key() == key {
			result.MinQuantity = limit.MinQuantity
			result.MaxQuantity = limit.MaxQuantity
			result.Unconfigured = false
			break
		}
	}
	for _, lot := range snapshot.ActiveLots() {
		if lot.Key() == key {
			result.QuantityBefore++
		}
	}
	result.QuantityAfter = result.QuantityBefore + req.Quantity

	if req.Quantity == 0 {
		return result, nil
	}

	now := time.Now()
	lots := make([]models.SupplyLot, 0, req.Quantity)
	for i := 0; i < req.Quantity; i++ {
		lots = append(lots, models.SupplyLot{
			Inventory:  req.Inventory,
			Item:       req.Item,
			Location:   req.Location,
			Expiration: expiration,
			AddedAt:    now,
			AddedBy:    actor,
		})
	}

	version, err := s.store.Commit(ctx, ledger.Update{
		BaseVersion: snapshot.Version,
		AddLots:     lots,
	})
	if err != nil {
		return nil, err
	}

	result.Version = version
	return result, nil
}
