package limits

import (
	"context"

	"github.com/JKilgallen/inventory-manager/internal/ledger"
	custom_error "github.com/JKilgallen/inventory-manager/pkg/errors"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

// Repository loads the configured operational limits. Limits are maintained
// out-of-band; this layer only reads and validates them.
type Repository struct {
	store ledger.Store
}

func NewRepository(store ledger.Store) *Repository {
	return &Repository{store: store}
}

// Load returns all configured limits. A limit with min > max is a
// configuration defect this core cannot correct, so it is surfaced as
// InvalidLimitError naming every offending key rather than clamped.
func (r *Repository) Load(ctx context.Context) ([]models.OperationalLimit, error) {
	limits, err := r.store.Limits(ctx)
	if err != nil {
		return nil, err
	}

	var invalid []string
	for _, limit := range limits {
		if limit.MinQuantity > limit.MaxQuantity {
			invalid = append(invalid, limit.Key().String())
		}
	}
	if len(invalid) > 0 {
		return nil, &custom_error.InvalidLimitError{Keys: invalid}
	}

	return limits, nil
}
