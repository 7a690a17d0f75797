package supplies

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JKilgallen/inventory-manager/internal/removal"
	custom_error "github.com/JKilgallen/inventory-manager/pkg/errors"
	"github.com/JKilgallen/inventory-manager/pkg/models"
	"github.com/JKilgallen/inventory-manager/pkg/security"
)

type SupplyHandler struct {
	service *Service
	matcher *removal.Matcher
}

func NewSupplyHandler(service *Service, matcher *removal.Matcher) *SupplyHandler {
	return &SupplyHandler{service: service, matcher: matcher}
}

func (h *SupplyHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/supplies", h.AddSupplies)
	protected.POST("/supplies/removals", h.RemoveSupplies)
}

func (h *SupplyHandler) AddSupplies(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if _, err := models.ParseExpiration(req.Expiration); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid expiration date", "details": err.Error()})
		return
	}

	result, err := h.service.AddLots(c.Request.Context(), req, security.Actor(c))
	if err != nil {
		switch err.(type) {
		case *custom_error.InvalidLimitError:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Operational limits are misconfigured", "details": err.Error()})
		case *custom_error.ConcurrentModificationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Ledger changed while adding, refresh and retry", "details": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to add supplies", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *SupplyHandler) RemoveSupplies(c *gin.Context) {
	var req RemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	expiration, err := models.ParseExpiration(req.Expiration)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid expiration date", "details": err.Error()})
		return
	}

	result, err := h.matcher.Remove(c.Request.Context(), removal.Request{
		Inventory:  req.Inventory,
		Item:       req.Item,
		Quantity:   req.Quantity,
		Expiration: expiration,
		Actor:      security.Actor(c),
	})
	if err != nil {
		switch err.(type) {
		case *custom_error.InsufficientStockError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Not enough matching stock", "details": err.Error()})
		case *custom_error.ConcurrentModificationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Ledger changed while removing, refresh and retry", "details": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove supplies", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
