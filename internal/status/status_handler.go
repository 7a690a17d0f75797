package status

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JKilgallen/inventory-manager/internal/ledger"
	"github.com/JKilgallen/inventory-manager/internal/limits"
	"github.com/JKilgallen/inventory-manager/internal/supplies"
	custom_error "github.com/JKilgallen/inventory-manager/pkg/errors"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

type StatusHandler struct {
	lotRepo    *supplies.LotRepository
	limitsRepo *limits.Repository
}

func NewStatusHandler(lotRepo *supplies.LotRepository, limitsRepo *limits.Repository) *StatusHandler {
	return &StatusHandler{lotRepo: lotRepo, limitsRepo: limitsRepo}
}

func (h *StatusHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/supplies/status", h.GetStatus)
	router.GET("/supplies/alerts", h.GetAlerts)
}

// GetStatus returns the full per-key snapshot, severity-sorted.
// ?horizon_days= overrides the 30-day expiring window.
func (h *StatusHandler) GetStatus(c *gin.Context) {
	lots, version, configured, horizon, ok := h.loadInputs(c)
	if !ok {
		return
	}

	rows, warnings := ComputeSnapshot(lots, configured, time.Now(), horizon)

	c.JSON(http.StatusOK, gin.H{
		"version":  version,
		"rows":     rows,
		"warnings": warningStrings(warnings),
	})
}

// GetAlerts returns only the rows needing attention, plus expired lots
// grouped by expiration date for the expired-items table.
func (h *StatusHandler) GetAlerts(c *gin.Context) {
	lots, version, configured, horizon, ok := h.loadInputs(c)
	if !ok {
		return
	}

	now := time.Now()
	rows, warnings := ComputeSnapshot(lots, configured, now, horizon)

	c.JSON(http.StatusOK, gin.H{
		"version":  version,
		"alerts":   Alerts(rows),
		"expired":  ExpiredGroups(lots, now),
		"warnings": warningStrings(warnings),
	})
}

// loadInputs gathers everything a snapshot needs, writing the HTTP error
// itself when a step fails.
func (h *StatusHandler) loadInputs(c *gin.Context) ([]models.SupplyLot, ledger.Version, []models.OperationalLimit, time.Duration, bool) {
	horizon, err := parseHorizon(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid horizon_days", "details": err.Error()})
		return nil, 0, nil, 0, false
	}

	lots, version, err := h.lotRepo.ActiveLots(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to read supplies", "details": err.Error()})
		return nil, 0, nil, 0, false
	}

	configured, err := h.limitsRepo.Load(c.Request.Context())
	if err != nil {
		switch err.(type) {
		case *custom_error.InvalidLimitError:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Operational limits are misconfigured", "details": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to read operational limits", "details": err.Error()})
		}
		return nil, 0, nil, 0, false
	}

	return lots, version, configured, horizon, true
}

func warningStrings(warnings []custom_error.MissingLimitWarning) []string {
	out := make([]string, 0, len(warnings))
	for i := range warnings {
		out = append(out, warnings[i].String())
	}
	return out
}

func parseHorizon(c *gin.Context) (time.Duration, error) {
	raw := c.Query("horizon_days")
	if raw == "" {
		return DefaultExpiryHorizon, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if days < 0 {
		return 0, fmt.Errorf("horizon_days must not be negative")
	}
	return time.Duration(days) * 24 * time.Hour, nil
}
