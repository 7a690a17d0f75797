package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JKilgallen/inventory-manager/internal/container"
	"github.com/JKilgallen/inventory-manager/pkg/security"
)

// RegisterPublicRoutes mounts the read-only surface: status snapshots,
// alerts, and inventory metadata.
func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	c.StatusHandler.RegisterRoutes(router)
	c.InventoriesHandler.RegisterRoutes(router)
}

// RegisterProtectedRoutes mounts the mutating surface behind the JWT
// middleware; the operator signature comes from the token.
func RegisterProtectedRoutes(router *gin.Engine, c *container.Container) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())

	c.SupplyHandler.RegisterRoutes(protectedRoutes)
	c.AuditHandler.RegisterRoutes(protectedRoutes)
}

func RegisterUtilityRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		log.Println("Health check successful")
	})
}
