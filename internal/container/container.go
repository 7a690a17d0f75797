package container

import (
	"github.com/JKilgallen/inventory-manager/internal/audit"
	"github.com/JKilgallen/inventory-manager/internal/inventories"
	"github.com/JKilgallen/inventory-manager/internal/ledger"
	"github.com/JKilgallen/inventory-manager/internal/limits"
	"github.com/JKilgallen/inventory-manager/internal/removal"
	"github.com/JKilgallen/inventory-manager/internal/status"
	"github.com/JKilgallen/inventory-manager/internal/supplies"
)

type Container struct {
	Store              ledger.Store
	LotRepository      *supplies.LotRepository
	LimitsRepository   *limits.Repository
	Matcher            *removal.Matcher
	Reconciler         *audit.Reconciler
	SupplyHandler      *supplies.SupplyHandler
	StatusHandler      *status.StatusHandler
	AuditHandler       *audit.AuditHandler
	InventoriesHandler *inventories.InventoriesHandler
}

func NewAppContainer(store ledger.Store) *Container {
	lotRepo := supplies.NewLotRepository(store)
	limitsRepo := limits.NewRepository(store)
	matcher := removal.NewMatcher(store)
	reconciler := audit.NewReconciler(store)
	supplyService := supplies.NewService(store, limitsRepo)

	return &Container{
		Store:              store,
		LotRepository:      lotRepo,
		LimitsRepository:   limitsRepo,
		Matcher:            matcher,
		Reconciler:         reconciler,
		SupplyHandler:      supplies.NewSupplyHandler(supplyService, matcher),
		StatusHandler:      status.NewStatusHandler(lotRepo, limitsRepo),
		AuditHandler:       audit.NewAuditHandler(reconciler),
		InventoriesHandler: inventories.NewInventoriesHandler(store),
	}
}
