package removal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JKilgallen/inventory-manager/internal/ledger"
	custom_error "github.com/JKilgallen/inventory-manager/pkg/errors"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func expiringOn(value string) *time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return &parsed
}

func activeLot(id int, item string, expiration *time.Time) models.SupplyLot {
	return models.SupplyLot{
		ID:         id,
		Inventory:  "Stockroom",
		Item:       item,
		Location:   "ShelfA",
		Expiration: expiration,
		AddedAt:    now.Add(-24 * time.Hour),
		AddedBy:    "tester",
	}
}

func TestPlanTakesSoonestExpiringFirst(t *testing.T) {
	lots := []models.SupplyLot{
		activeLot(1, "Bandages", expiringOn("2026-01-01")), // Jan
		activeLot(2, "Bandages", expiringOn("2026-03-01")), // Mar
		activeLot(3, "Bandages", expiringOn("2026-02-01")), // Feb
	}

	removals, err := Plan(lots, Request{
		Inventory: "Stockroom",
		Item:      "Bandages",
		Quantity:  2,
		Actor:     "alex",
	}, now)

	require.NoError(t, err)
	require.Len(t, removals, 2)
	assert.Equal(t, 1, removals[0].LotID) // Jan
	assert.Equal(t, 3, removals[1].LotID) // Feb
	assert.Equal(t, "alex", removals[0].RemovedBy)
}

func TestPlanUnknownExpirationSortsLast(t *testing.T) {
	lots := []models.SupplyLot{
		activeLot(1, "Bandages", nil),
		activeLot(2, "Bandages", expiringOn("2026-03-01")),
	}

	removals, err := Plan(lots, Request{Inventory: "Stockroom", Item: "Bandages", Quantity: 1, Actor: "alex"}, now)

	require.NoError(t, err)
	require.Len(t, removals, 1)
	assert.Equal(t, 2, removals[0].LotID)
}

func TestPlanExactExpirationPool(t *testing.T) {
	lots := []models.SupplyLot{
		activeLot(1, "Bandages", expiringOn("2026-01-01")),
		activeLot(2, "Bandages", expiringOn("2026-02-01")),
		activeLot(3, "Bandages", expiringOn("2026-02-01")),
	}

	removals, err := Plan(lots, Request{
		Inventory:  "Stockroom",
		Item:       "Bandages",
		Quantity:   2,
		Expiration: expiringOn("2026-02-01"),
		Actor:      "alex",
	}, now)

	require.NoError(t, err)
	require.Len(t, removals, 2)
	for _, removal := range removals {
		assert.NotEqual(t, 1, removal.LotID, "lot outside the expiration pool must not be touched")
	}
}

func TestPlanInsufficientStock(t *testing.T) {
	lots := []models.SupplyLot{
		activeLot(1, "Bandages", expiringOn("2026-01-01")),
	}

	tests := []struct {
		name string
		req  Request
	}{
		{
			name: "more than active lots",
			req:  Request{Inventory: "Stockroom", Item: "Bandages", Quantity: 2, Actor: "alex"},
		},
		{
			name: "expiration pool too small",
			req:  Request{Inventory: "Stockroom", Item: "Bandages", Quantity: 1, Expiration: expiringOn("2026-06-01"), Actor: "alex"},
		},
		{
			name: "no such item",
			req:  Request{Inventory: "Stockroom", Item: "Defibrillator", Quantity: 1, Actor: "alex"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			removals, err := Plan(lots, tt.req, now)
			assert.Nil(t, removals)

			var insufficient *custom_error.InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
			assert.Equal(t, tt.req.Quantity, insufficient.Requested)
		})
	}
}

func TestPlanZeroQuantityIsNoop(t *testing.T) {
	lots := []models.SupplyLot{activeLot(1, "Bandages", nil)}

	removals, err := Plan(lots, Request{Inventory: "Stockroom", Item: "Bandages", Quantity: 0, Actor: "alex"}, now)

	assert.NoError(t, err)
	assert.Empty(t, removals)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Supplies(ctx context.Context) (*ledger.SupplySnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.SupplySnapshot), args.Error(1)
}

func (m *MockStore) Limits(ctx context.Context) ([]models.OperationalLimit, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockStore) Inventories(ctx context.Context) ([]models.Inventory, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockStore) Audits(ctx context.Context) ([]models.AuditRecord, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockStore) Commit(ctx context.Context, update ledger.Update) (ledger.Version, error) {
	args := m.Called(ctx, update)
	return args.Get(0).(ledger.Version), args.Error(1)
}

func TestRemoveCommitsAgainstReadVersion(t *testing.T) {
	store := new(MockStore)
	matcher := NewMatcher(store)

	snapshot := &ledger.SupplySnapshot{
		Lots:    []models.SupplyLot{activeLot(7, "Bandages", expiringOn("2026-01-01"))},
		Version: 42,
	}

	store.On("Supplies", mock.Anything).Return(snapshot, nil).Once()
	store.On("Commit", mock.Anything, mock.MatchedBy(func(update ledger.Update) bool {
		return update.BaseVersion == 42 && len(update.Removals) == 1 && update.Removals[0].LotID == 7
	})).Return(ledger.Version(43), nil).Once()

	result, err := matcher.Remove(context.Background(), Request{
		Inventory: "Stockroom",
		Item:      "Bandages",
		Quantity:  1,
		Actor:     "alex",
	})

	require.NoError(t, err)
	assert.Equal(t, []int{7}, result.RemovedLotIDs)
	assert.Equal(t, ledger.Version(43), result.Version)
	store.AssertExpectations(t)
}

func TestRemoveInsufficientStockNeverCommits(t *testing.T) {
	store := new(MockStore)
	matcher := NewMatcher(store)

	store.On("Supplies", mock.Anything).Return(&ledger.SupplySnapshot{Version: 1}, nil).Once()

	_, err := matcher.Remove(context.Background(), Request{
		Inventory: "Stockroom",
		Item:      "Bandages",
		Quantity:  1,
		Actor:     "alex",
	})

	var insufficient *custom_error.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	store.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

func TestRemoveAgainstMemoryStore(t *testing.T) {
	store := ledger.NewMemoryStore()
	store.Seed([]models.SupplyLot{
		activeLot(0, "Bandages", expiringOn("2026-02-01")),
		activeLot(0, "Bandages", expiringOn("2026-01-01")),
	}, nil, nil)

	matcher := NewMatcher(store)
	result, err := matcher.Remove(context.Background(), Request{
		Inventory: "Stockroom",
		Item:      "Bandages",
		Quantity:  1,
		Actor:     "alex",
	})
	require.NoError(t, err)
	require.Len(t, result.RemovedLotIDs, 1)

	snapshot, err := store.Supplies(context.Background())
	require.NoError(t, err)

	active := snapshot.ActiveLots()
	require.Len(t, active, 1)
	assert.Equal(t, "2026-02-01", active[0].Expiration.Format("2006-01-02"),
		"the soonest-expiring lot should have been removed")
}
