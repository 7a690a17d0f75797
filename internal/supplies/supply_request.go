package supplies

// AddRequest adds quantity identical lots to one key. Expiration accepts
// YYYY-MM or YYYY-MM-DD; empty means unknown.
type AddRequest struct {
	Inventory  string `json:"inventory" binding:"required"`
	Item       string `json:"item" binding:"required"`
	Location   string `json:"location" binding:"required"`
	Expiration string `json:"expiration"`
	Quantity   int    `json:"quantity" binding:"gte=0"`
}

// RemoveRequest removes quantity lots of an item. Without an expiration the
// soonest-to-expire lots are taken; with one, only lots carrying exactly
// that date.
type RemoveRequest struct {
	Inventory  string `json:"inventory" binding:"required"`
	Item       string `json:"item" binding:"required"`
	Expiration string `json:"expiration"`
	Quantity   int    `json:"quantity" binding:"gte=0"`
}
