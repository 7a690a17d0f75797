package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
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

func seededStore(t *testing.T) *ledger.MemoryStore {
	t.Helper()

	store := ledger.NewMemoryStore()
	store.Seed([]models.SupplyLot{
		{Inventory: "KitA", Item: "Bandages", Location: "Lid", Expiration: expiringOn("2026-01-01"), AddedAt: now, AddedBy: "tester"},
		{Inventory: "KitA", Item: "Bandages", Location: "Lid", Expiration: expiringOn("2026-01-01"), AddedAt: now, AddedBy: "tester"},
		{Inventory: "KitA", Item: "Scissors", Location: "Tray", AddedAt: now, AddedBy: "tester"},
	}, nil, nil)
	return store
}

func TestAbsentLotRemovedAndRecorded(t *testing.T) {
	store := seededStore(t)
	reconciler := NewReconciler(store)

	result, err := reconciler.SubmitAudit(context.Background(), "KitA", Checklist{
		"Lid": {
			{Item: "Bandages", Expiration: expiringOn("2026-01-01"), Present: false},
		},
	}, "alex")
	require.NoError(t, err)

	assert.Len(t, result.RemovedLotIDs, 1)
	assert.Equal(t, 1, result.RecordsWritten)

	snapshot, err := store.Supplies(context.Background())
	require.NoError(t, err)
	assert.Len(t, snapshot.ActiveLots(), 2, "exactly one lot may be removed")

	audits, err := store.Audits(context.Background())
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.False(t, audits[0].Present)
	assert.Equal(t, "alex", audits[0].AuditedBy)
	assert.Equal(t, "Lid", audits[0].Location)
}

func TestPresentLotOnlyRecorded(t *testing.T) {
	store := seededStore(t)
	reconciler := NewReconciler(store)

	result, err := reconciler.SubmitAudit(context.Background(), "KitA", Checklist{
		"Tray": {
			{Item: "Scissors", Present: true},
		},
	}, "alex")
	require.NoError(t, err)

	assert.Empty(t, result.RemovedLotIDs)
	assert.Equal(t, 1, result.RecordsWritten)

	snapshot, err := store.Supplies(context.Background())
	require.NoError(t, err)
	assert.Len(t, snapshot.ActiveLots(), 3, "a present lot must not be removed")

	audits, err := store.Audits(context.Background())
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.True(t, audits[0].Present)
}

// Two absent rows naming the same item and expiration must consume two
// distinct lots, not the same one twice.
func TestRepeatedAbsentRowsConsumeDistinctLots(t *testing.T) {
	store := seededStore(t)
	reconciler := NewReconciler(store)

	result, err := reconciler.SubmitAudit(context.Background(), "KitA", Checklist{
		"Lid": {
			{Item: "Bandages", Expiration: expiringOn("2026-01-01"), Present: false},
			{Item: "Bandages", Expiration: expiringOn("2026-01-01"), Present: false},
		},
	}, "alex")
	require.NoError(t, err)

	require.Len(t, result.RemovedLotIDs, 2)
	assert.NotEqual(t, result.RemovedLotIDs[0], result.RemovedLotIDs[1])
}

func TestChecklistSpanningLocationsCommitsOnce(t *testing.T) {
	store := seededStore(t)
	reconciler := NewReconciler(store)

	before, err := store.Supplies(context.Background())
	require.NoError(t, err)

	result, err := reconciler.SubmitAudit(context.Background(), "KitA", Checklist{
		"Lid": {
			{Item: "Bandages", Expiration: expiringOn("2026-01-01"), Present: true},
		},
		"Tray": {
			{Item: "Scissors", Present: false},
		},
	}, "alex")
	require.NoError(t, err)

	assert.Equal(t, 2, result.RecordsWritten)
	assert.Len(t, result.RemovedLotIDs, 1)
	assert.Equal(t, before.Version+1, result.Version, "the whole audit is one commit")
}

// A checklist naming a lot the ledger does not hold fails the whole
// submission: no removals, no records.
func TestFailedAuditAppliesNothing(t *testing.T) {
	store := seededStore(t)
	reconciler := NewReconciler(store)

	_, err := reconciler.SubmitAudit(context.Background(), "KitA", Checklist{
		"Lid": {
			{Item: "Bandages", Expiration: expiringOn("2026-01-01"), Present: false},
			{Item: "Bandages", Expiration: expiringOn("2031-12-01"), Present: false},
		},
	}, "alex")

	var insufficient *custom_error.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	snapshot, err := store.Supplies(context.Background())
	require.NoError(t, err)
	assert.Len(t, snapshot.ActiveLots(), 3)

	audits, err := store.Audits(context.Background())
	require.NoError(t, err)
	assert.Empty(t, audits)
}

func TestEmptyChecklistIsNoop(t *testing.T) {
	store := seededStore(t)
	reconciler := NewReconciler(store)

	before, err := store.Supplies(context.Background())
	require.NoError(t, err)

	result, err := reconciler.SubmitAudit(context.Background(), "KitA", Checklist{}, "alex")
	require.NoError(t, err)
	assert.Equal(t, before.Version, result.Version)
	assert.Zero(t, result.RecordsWritten)
}
