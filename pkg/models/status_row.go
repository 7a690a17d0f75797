package models

import (
	"github.com/JKilgallen/inventory-manager/pkg/metadata"
)

// StatusRow is the derived per-key view of the ledger. Never persisted;
// recomputed from the active-lot set on every read.
type StatusRow struct {
	Key               LotKey          `json:"key"`
	QuantityTotal     int             `json:"quantity_total"`
	QuantityExpired   int             `json:"quantity_expired"`
	QuantityExpiring  int             `json:"quantity_expiring"`
	QuantityRemaining int             `json:"quantity_remaining"`
	MinQuantity       int             `json:"min_quantity"`
	MaxQuantity       int             `json:"max_quantity"`
	Unconfigured      bool            `json:"unconfigured,omitempty"`
	Status            metadata.Status `json:"status"`
}
