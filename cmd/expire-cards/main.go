package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/internal/config"
	"github.com/perfumeoud/retailapi/internal/giftcode"
	"github.com/perfumeoud/retailapi/internal/qrcode"
	"github.com/perfumeoud/retailapi/internal/repository/postgres"
	"github.com/perfumeoud/retailapi/internal/service"
)

// Runs the expiry sweep once. Intended for a cron job so reports stay
// accurate even for cards nobody validates.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	svc := service.NewGiftCardService(repos, giftcode.NewGenerator(), qrcode.NewCodec(cfg.GiftCard.Issuer), cfg.GiftCard, logger)

	count, err := svc.ExpireOldGiftCards(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Expiry sweep failed: %v\n", err)
		os.Exit(1)
	}

	if count == 0 {
		fmt.Println("No gift cards to expire.")
		return
	}

	fmt.Printf("✅ Expired %d gift card(s).\n", count)
}
