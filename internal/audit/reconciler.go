package audit

import (
	"context"
	"sort"
	"time"

	"github.com/JKilgallen/inventory-manager/internal/ledger"
	"github.com/JKilgallen/inventory-manager/internal/removal"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

// Reconciler turns a physical presence checklist into ledger updates: a
// removal for every missing lot and an audit record for every checked row,
// committed as one unit.
type Reconciler struct {
	store ledger.Store
}

func NewReconciler(store ledger.Store) *Reconciler {
	return &Reconciler{store: store}
}

// CheckedItem is one lot checked during an audit.
type CheckedItem struct {
	Item       string     `json:"item"`
	Expiration *time.Time `json:"expiration,omitempty"`
	Present    bool       `json:"present"`
}

// Checklist maps location to the lots checked there.
type Checklist map[string][]CheckedItem

type Result struct {
	RemovedLotIDs  []int          `json:"removed_lot_ids"`
	RecordsWritten int            `json:"records_written"`
	Version        ledger.Version `json:"version"`
}

// SubmitAudit reconciles one audit submission. Missing lots are selected
// through the removal planner, the same path manual removal uses, and every
// checked row gains an audit record. Everything commits against the single
// snapshot read at the start; on any failure nothing is applied.
func (r *Reconciler) SubmitAudit(ctx context.Context, inventory string, checklist Checklist, actor string) (*Result, error) {
	snapshot, err := r.store.Supplies(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	remaining := snapshot.ActiveLots()

	var removals []ledger.Removal
	var records []models.AuditRecord

	// Map iteration order is random; walk locations sorted so planning is
	// deterministic.
	locations := make([]string, 0, len(checklist))
	for location := range checklist {
		locations = append(locations, location)
	}
	sort.Strings(locations)

	for _, location := range locations {
		for _, checked := range checklist[location] {
			records = append(records, models.AuditRecord{
				Inventory:  inventory,
				Location:   location,
				Item:       checked.Item,
				Expiration: checked.Expiration,
				Present:    checked.Present,
				AuditedAt:  now,
				AuditedBy:  actor,
			})

			if checked.Present {
				continue
			}

			planned, err := removal.Plan(remaining, removal.Request{
				Inventory:  inventory,
				Item:       checked.Item,
				Quantity:   1,
				Expiration: checked.Expiration,
				Actor:      actor,
			}, now)
			if err != nil {
				return nil, err
			}

			removals = append(removals, planned...)
			remaining = withoutLots(remaining, planned)
		}
	}

	if len(records) == 0 {
		return &Result{Version: snapshot.Version}, nil
	}

	version, err := r.store.Commit(ctx, ledger.Update{
		BaseVersion: snapshot.Version,
		Removals:    removals,
		Audits:      records,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{RecordsWritten: len(records), Version: version}
	for _, planned := range removals {
		result.RemovedLotIDs = append(result.RemovedLotIDs, planned.LotID)
	}
	return result, nil
}

// withoutLots filters out lots already planned for removal, so later rows
// of the same checklist cannot select them again.
func withoutLots(lots []models.SupplyLot, planned []ledger.Removal) []models.SupplyLot {
	if len(planned) == 0 {
		return lots
	}

	taken := make(map[int]bool, len(planned))
	for _, removal := range planned {
		taken[removal.LotID] = true
	}

	filtered := lots[:0]
	for _, lot := range lots {
		if !taken[lot.ID] {
			filtered = append(filtered, lot)
		}
	}
	return filtered
}
