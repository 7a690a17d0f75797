package supplies

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/JKilgallen/inventory-manager/internal/ledger"
	"github.com/JKilgallen/inventory-manager/internal/limits"
	"github.com/JKilgallen/inventory-manager/internal/removal"
	"github.com/JKilgallen/inventory-manager/pkg/models"
)

// brokenStore fails every operation, standing in for a lost backend.
type brokenStore struct{}

var errStoreDown = errors.New("connection reset")

func (brokenStore) Supplies(context.Context) (*ledger.SupplySnapshot, error) {
	return nil, errStoreDown
}

func (brokenStore) Limits(context.Context) ([]models.OperationalLimit, error) {
	return nil, errStoreDown
}

func (brokenStore) Inventories(context.Context) ([]models.Inventory, error) {
	return nil, errStoreDown
}

func (brokenStore) Audits(context.Context) ([]models.AuditRecord, error) {
	return nil, errStoreDown
}

func (brokenStore) Commit(context.Context, ledger.Update) (ledger.Version, error) {
	return 0, errStoreDown
}

func newSupplyRouter(store ledger.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewSupplyHandler(NewService(store, limits.NewRepository(store)), removal.NewMatcher(store))
	router := gin.New()
	handler.RegisterRoutes(router.Group(""))
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAddSuppliesStoreFailureIsServerError(t *testing.T) {
	router := newSupplyRouter(brokenStore{})

	recorder := postJSON(router, "/supplies",
		`{"inventory":"KitA","item":"Tape","location":"Pocket","quantity":1}`)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRemoveSuppliesStoreFailureIsServerError(t *testing.T) {
	router := newSupplyRouter(brokenStore{})

	recorder := postJSON(router, "/supplies/removals",
		`{"inventory":"KitA","item":"Tape","quantity":1}`)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestAddSuppliesBadExpirationIsClientError(t *testing.T) {
	router := newSupplyRouter(ledger.NewMemoryStore())

	recorder := postJSON(router, "/supplies",
		`{"inventory":"KitA","item":"Tape","location":"Pocket","expiration":"soon","quantity":1}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
