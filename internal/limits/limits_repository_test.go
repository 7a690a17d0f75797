package limits

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JKilgallen/inventory-manager/internal/ledger"
	custom_error "github.com/JKilgallen/inventory-manager/pkg/errors"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

func TestLoadValidLimits(t *testing.T) {
	store := ledger.NewMemoryStore()
	store.Seed(nil, []models.OperationalLimit{
		{Inventory: "KitA", Item: "Tape", Location: "Pocket", MinQuantity: 1, MaxQuantity: 5},
		{Inventory: "KitA", Item: "Gloves", Location: "Side", MinQuantity: 0, MaxQuantity: 0},
	}, nil)

	configured, err := NewRepository(store).Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, configured, 2)
}

func TestLoadNamesEveryInvalidKey(t *testing.T) {
	store := ledger.NewMemoryStore()
	store.Seed(nil, []models.OperationalLimit{
		{Inventory: "KitA", Item: "Tape", Location: "Pocket", MinQuantity: 6, MaxQuantity: 5},
		{Inventory: "KitA", Item: "Gloves", Location: "Side", MinQuantity: 1, MaxQuantity: 4},
		{Inventory: "KitB", Item: "Scissors", Location: "Tray", MinQuantity: 3, MaxQuantity: 0},
	}, nil)

	configured, err := NewRepository(store).Load(context.Background())

	assert.Nil(t, configured)
	var invalid *custom_error.InvalidLimitError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"KitA/Tape@Pocket", "KitB/Scissors@Tray"}, invalid.Keys)
}
