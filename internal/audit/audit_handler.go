package audit

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	custom_error "github.com/JKilgallen/inventory-manager/pkg/errors"
	"github.com/JKilgallen/inventory-manager/pkg/models"
	"github.com/JKilgallen/inventory-manager/pkg/security"
)

type AuditHandler struct {
	reconciler *Reconciler
}

func NewAuditHandler(reconciler *Reconciler) *AuditHandler {
	return &AuditHandler{reconciler: reconciler}
}

func (h *AuditHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/inventories/:inventory/audits", h.SubmitAudit)
}

// checkedItemRequest mirrors CheckedItem with the expiration still a string,
// so month-granularity input parses the same way everywhere.
type checkedItemRequest struct {
	Item       string `json:"item" binding:"required"`
	Expiration string `json:"expiration"`
	Present    *bool  `json:"present" binding:"required"`
}

// An empty or absent checklist is a valid no-op submission, so the field
// carries no required binding.
type submitAuditRequest struct {
	Checklist map[string][]checkedItemRequest `json:"checklist"`
}

func (h *AuditHandler) SubmitAudit(c *gin.Context) {
	inventory := c.Param("inventory")

	var req submitAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	checklist, err := buildChecklist(req.Checklist)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid checklist", "details": err.Error()})
		return
	}

	result, err := h.reconciler.SubmitAudit(c.Request.Context(), inventory, checklist, security.Actor(c))
	if err != nil {
		switch err.(type) {
		case *custom_error.InsufficientStockError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Checklist names a lot the ledger does not hold", "details": err.Error()})
		case *custom_error.ConcurrentModificationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Ledger changed during the audit, refresh and retry", "details": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit audit", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func buildChecklist(raw map[string][]checkedItemRequest) (Checklist, error) {
	checklist := make(Checklist, len(raw))
	for location, items := range raw {
		checked := make([]CheckedItem, 0, len(items))
		for _, item := range items {
			var expiration *time.Time
			var err error
			if expiration, err = models.ParseExpiration(item.Expiration); err != nil {
				return nil, err
			}
			checked = append(checked, CheckedItem{
				Item:       item.Item,
				Expiration: expiration,
				Present:    *item.Present,
			})
		}
		checklist[location] = checked
	}
	return checklist, nil
}
