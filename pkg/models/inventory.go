package models

// Inventory is display metadata for one named inventory (a first-aid kit,
// the stockroom, a vehicle). Used for grouping only, never business logic.
type Inventory struct {
	Name string `json:"name" db:"name"`
	Icon string `json:"icon" db:"icon"`
}
