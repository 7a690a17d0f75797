package custom_error

import (
	"fmt"
	"strings"
	"time"
)

// The core reports every failure as one of these typed errors. Nothing is
// retried here; retry-after-refresh is the caller's decision.

// InsufficientStockError means a removal or audit asked for more units than
// are currently active and matching.
type InsufficientStockError struct {
	Inventory  string
	Item       string
	Expiration *time.Time
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	if e.Expiration != nil {
		return fmt.Sprintf("insufficient stock: %s/%s expiring %s has %d active lots, %d requested",
			e.Inventory, e.Item, e.Expiration.Format("2006-01-02"), e.Available, e.Requested)
	}
	return fmt.Sprintf("insufficient stock: %s/%s has %d active lots, %d requested",
		e.Inventory, e.Item, e.Available, e.Requested)
}

// ConcurrentModificationError means a write's expected ledger version no
// longer matches the store; the caller must re-read before retrying.
type ConcurrentModificationError struct {
	Table    string
	Expected int64
	Actual   int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("concurrent modification of %s: expected version %d, store at %d",
		e.Table, e.Expected, e.Actual)
}

// InvalidLimitError means one or more configured limits have min > max.
// Detected at limits load; surfaced, never clamped.
type InvalidLimitError struct {
	Keys []string
}

func (e *InvalidLimitError) Error() string {
	return fmt.Sprintf("invalid operational limits (min > max) for: %s", strings.Join(e.Keys, ", "))
}

// MissingLimitWarning flags a key holding active lots with no configured
// operational limit. A data-quality warning, not a failure: the key still
// appears in the snapshot marked unconfigured.
type MissingLimitWarning struct {
	Key string
}

func (w *MissingLimitWarning) String() string {
	return fmt.Sprintf("no operational limit configured for %s", w.Key)
}
