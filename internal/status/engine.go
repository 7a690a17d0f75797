package status

import (
	"sort"
	"time"

	custom_error "github.com/JKilgallen/inventory-manager/pkg/errors"
	"github.com/JKilgallen/inventory-manager/pkg/metadata"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

// DefaultExpiryHorizon is how far ahead a lot counts as "expiring".
const DefaultExpiryHorizon = 30 * 24 * time.Hour

// ComputeSnapshot derives one StatusRow per (inventory, item, location) key
// from the active-lot set and the configured limits. Keys present in limits
// but holding no lots appear with zero quantities; keys holding lots but
// missing a limit appear marked unconfigured and produce a warning. Rows
// come back sorted by severity rank, most urgent first.
func ComputeSnapshot(lots []models.SupplyLot, limits []models.OperationalLimit, now time.Time, horizon time.Duration) ([]models.StatusRow, []custom_error.MissingLimitWarning) {
	if horizon <= 0 {
		horizon = DefaultExpiryHorizon
	}

	rows := make(map[models.LotKey]*models.StatusRow, len(limits))
	for _, limit := range limits {
		key := limit.Key()
		rows[key] = &models.StatusRow{
			Key:         key,
			MinQuantity: limit.MinQuantity,
			MaxQuantity: limit.MaxQuantity,
		}
	}

	var warnings []custom_error.MissingLimitWarning
	for _, lot := range lots {
		key := lot.Key()
		row, ok := rows[key]
		if !ok {
			row = &models.StatusRow{Key: key, Unconfigured: true}
			rows[key] = row
			warnings = append(warnings, custom_error.MissingLimitWarning{Key: key.String()})
		}

		row.QuantityTotal++
		switch {
		case lot.Expired(now):
			row.QuantityExpired++
		case lot.ExpiringWithin(now, horizon):
			row.QuantityExpiring++
		}
	}

	snapshot := make([]models.StatusRow, 0, len(rows))
	for _, row := range rows {
		row.QuantityRemaining = row.QuantityTotal - row.QuantityExpired
		row.Status = classify(row)
		snapshot = append(snapshot, *row)
	}

	sortBySeverity(snapshot)
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Key < warnings[j].Key })

	return snapshot, warnings
}

// classify evaluates the status rules in fixed priority order; the first
// match wins.
func classify(row *models.StatusRow) metadata.Status {
	switch {
	case row.QuantityRemaining == 0:
		return metadata.StatusOutOfStock
	case row.QuantityExpired > 0:
		return metadata.StatusExpired
	case row.QuantityRemaining <= row.MinQuantity:
		return metadata.StatusRunningLow
	case row.QuantityExpiring > 0:
		return metadata.StatusExpiring
	case row.QuantityRemaining < row.MaxQuantity:
		return metadata.StatusUnderstocked
	default:
		return metadata.StatusFullyStocked
	}
}

func sortBySeverity(rows []models.StatusRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Status.Rank() != rows[j].Status.Rank() {
			return rows[i].Status.Rank() < rows[j].Status.Rank()
		}
		if rows[i].Key.Inventory != rows[j].Key.Inventory {
			return rows[i].Key.Inventory < rows[j].Key.Inventory
		}
		if rows[i].Key.Item != rows[j].Key.Item {
			return rows[i].Key.Item < rows[j].Key.Item
		}
		return rows[i].Key.Location < rows[j].Key.Location
	})
}

// Alerts filters a snapshot down to the rows that need attention.
func Alerts(rows []models.StatusRow) []models.StatusRow {
	alerts := make([]models.StatusRow, 0, len(rows))
	for _, row := range rows {
		if row.Status != metadata.StatusFullyStocked {
			alerts = append(alerts, row)
		}
	}
	return alerts
}

// ExpiredGroup is one batch of expired lots sharing an expiration date,
// for the expired-items alert table.
type ExpiredGroup struct {
	Inventory  string    `json:"inventory"`
	Item       string    `json:"item"`
	Expiration time.Time `json:"expiration"`
	Quantity   int       `json:"quantity"`
}

// ExpiredGroups aggregates active expired lots by
// (inventory, item, expiration).
func ExpiredGroups(lots []models.SupplyLot, now time.Time) []ExpiredGroup {
	type groupKey struct {
		inventory  string
		item       string
		expiration time.Time
	}

	counts := make(map[groupKey]int)
	for _, lot := range lots {
		if !lot.Expired(now) {
			continue
		}
		counts[groupKey{lot.Inventory, lot.Item, *lot.Expiration}]++
	}

	groups := make([]ExpiredGroup, 0, len(counts))
	for key, quantity := range counts {
		groups = append(groups, ExpiredGroup{
			Inventory:  key.inventory,
			Item:       key.item,
			Expiration: key.expiration,
			Quantity:   quantity,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Inventory != groups[j].Inventory {
			return groups[i].Inventory < groups[j].Inventory
		}
		if groups[i].Item != groups[j].Item {
			return groups[i].Item < groups[j].Item
		}
		return groups[i].Expiration.Before(groups[j].Expiration)
	})

	return groups
}
