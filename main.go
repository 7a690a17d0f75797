package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/JKilgallen/inventory-manager/cmd"
	"github.com/JKilgallen/inventory-manager/internal/container"
	"github.com/JKilgallen/inventory-manager/internal/database"
	"github.com/JKilgallen/inventory-manager/internal/ledger"
	"github.com/JKilgallen/inventory-manager/internal/middleware"
	"github.com/JKilgallen/inventory-manager/internal/routes"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// Subcommands (migrate) run and exit here; no args falls through to the server.
	if len(os.Args) > 1 {
		cmd.Execute(ctx)
		os.Exit(0)
	}
}

func main() {
	// Checked after godotenv has run; an empty secret would accept any
	// HMAC-signed token on the mutating routes.
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("Error: JWT_SECRET is not set")
	}

	store, err := newLedgerStore(context.Background())
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	appContainer := container.NewAppContainer(store)

	router := gin.New()
	router.Use(gin.Logger(), middleware.RecoveryMiddleware())
	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)
	routes.RegisterUtilityRoutes(router)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}

// newLedgerStore picks the ledger backend: postgres by default, the original
// tracker spreadsheet via LEDGER_BACKEND=sheets, or an empty in-memory
// ledger for local experiments.
func newLedgerStore(ctx context.Context) (ledger.Store, error) {
	switch backend := os.Getenv("LEDGER_BACKEND"); backend {
	case "", "postgres":
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is not set")
		}
		db, err := database.NewPostgresConnection(dbURL)
		if err != nil {
			return nil, err
		}
		log.Println("Connected to the database successfully!")
		return ledger.NewPostgresStore(db), nil
	case "sheets":
		service, err := ledger.NewSheetsService(ctx)
		if err != nil {
			return nil, err
		}
		spreadsheetID := os.Getenv("SHEETS_SPREADSHEET_ID")
		if spreadsheetID == "" {
			return nil, fmt.Errorf("SHEETS_SPREADSHEET_ID is not set")
		}
		return ledger.NewSheetsStore(service, spreadsheetID), nil
	case "memory":
		log.Println("Warning: using the in-memory ledger, nothing will be persisted.")
		return ledger.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown LEDGER_BACKEND %q", backend)
	}
}
