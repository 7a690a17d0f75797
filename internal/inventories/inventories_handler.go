package inventories

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JKilgallen/inventory-manager/internal/ledger"
)

// InventoriesHandler serves the inventory display metadata (name + icon).
// Grouping only; no business logic reads this.
type InventoriesHandler struct {
	store ledger.Store
}

func NewInventoriesHandler(store ledger.Store) *InventoriesHandler {
	return &InventoriesHandler{store: store}
}

func (h *InventoriesHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/inventories", h.GetInventories)
}

func (h *InventoriesHandler) GetInventories(c *gin.Context) {
	inventories, err := h.store.Inventories(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to read inventories", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, inventories)
}
