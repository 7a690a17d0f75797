package models

import (
	"time"
)

// SupplyLot is one physical unit of a supply item. Lots are never deleted;
// removal sets RemovedAt/RemovedBy exactly once and the row stays in the
// ledger as history.
type SupplyLot struct {
	ID         int        `json:"id" db:"id"`
	Inventory  string     `json:"inventory" db:"inventory"`
	Item       string     `json:"item" db:"item"`
	Location   string     `json:"location" db:"location"`
	Expiration *time.Time `json:"expiration,omitempty" db:"expiration"`
	AddedAt    time.Time  `json:"added_at" db:"added_at"`
	AddedBy    string     `json:"added_by" db:"added_by"`
	RemovedAt  *time.Time `json:"removed_at,omitempty" db:"removed_at"`
	RemovedBy  *string    `json:"removed_by,omitempty" db:"removed_by"`
}

func (l *SupplyLot) Active() bool {
	return l.RemovedAt == nil
}

// Expired reports whether the lot's expiration date has passed. Lots with an
// unknown expiration never count as expired.
func (l *SupplyLot) Expired(now time.Time) bool {
	return l.Expiration != nil && l.Expiration.Before(now)
}

// ExpiringWithin reports whether the lot expires inside the given horizon,
// exclusive of already-expired lots.
func (l *SupplyLot) ExpiringWithin(now time.Time, horizon time.Duration) bool {
	if l.Expiration == nil || l.Expired(now) {
		return false
	}
	return l.Expiration.Before(now.Add(horizon))
}

func (l *SupplyLot) Key() LotKey {
	return LotKey{Inventory: l.Inventory, Item: l.Item, Location: l.Location}
}

// LotKey identifies one operational-limit policy and one status row.
type LotKey struct {
	Inventory string `json:"inventory"`
	Item      string `json:"item"`
	Location  string `json:"location"`
}

func (k LotKey) String() string {
	return k.Inventory + "/" + k.Item + "@" + k.Location
}
