package models

// OperationalLimit is the configured stock policy for one
// (inventory, item, location) key. Configured out-of-band; read-only here.
type OperationalLimit struct {
	Inventory   string `json:"inventory" db:"inventory"`
	Item        string `json:"item" db:"item"`
	Location    string `json:"location" db:"location"`
	MinQuantity int    `json:"min_quantity" db:"min_quantity"`
	MaxQuantity int    `json:"max_quantity" db:"max_quantity"`
}

func (l *OperationalLimit) Key() LotKey {
	return LotKey{Inventory: l.Inventory, Item: l.Item, Location: l.Location}
}
