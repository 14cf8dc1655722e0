package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/internal/api"
	"github.com/perfumeoud/retailapi/internal/config"
	"github.com/perfumeoud/retailapi/internal/conversion"
	"github.com/perfumeoud/retailapi/internal/repository/postgres"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	// Conversion engine with the standard rules and material catalog
	engine := conversion.NewEngine(conversion.DefaultRules(), logger)
	catalog := conversion.DefaultCatalog()

	router := api.NewRouter(cfg, repos, engine, catalog, logger)

	logger.Info("Starting server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
