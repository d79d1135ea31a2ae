// Command createuser adds an account from the command line, typically the first staff user.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	customerapp "github.com/erp/storefront/internal/application/customer"
	identityapp "github.com/erp/storefront/internal/application/identity"
	"github.com/erp/storefront/internal/infrastructure/auth"
	"github.com/erp/storefront/internal/infrastructure/config"
	"github.com/erp/storefront/internal/infrastructure/event"
	"github.com/erp/storefront/internal/infrastructure/logger"
	"github.com/erp/storefront/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var input identityapp.NewUserInput
	flag.StringVar(&input.Username, "username", "", "login name (required)")
	flag.StringVar(&input.Email, "email", "", "email address (required)")
	flag.StringVar(&input.Password, "password", "", "password, at least 8 characters (required)")
	flag.StringVar(&input.FirstName, "first-name", "", "first name")
	flag.StringVar(&input.LastName, "last-name", "", "last name")
	flag.BoolVar(&input.IsStaff, "staff", false, "grant staff rights")
	flag.Parse()

	if input.Username == "" || input.Email == "" || input.Password == "" {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{Level: "info", Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, nil)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// The customer profile is provisioned by the same hook the API uses.
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(customerapp.NewProfileProvisioningHandler(persistence.NewGormCustomerRepository(db.DB), log))
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	authService := identityapp.NewAuthService(
		persistence.NewGormUserRepository(db.DB),
		auth.NewJWTService(cfg.JWT),
		bus,
		log,
	)
	user, err := authService.CreateUser(ctx, input)
	if stopErr := bus.Stop(ctx); stopErr != nil {
		log.Warn("Event bus did not drain", zap.Error(stopErr))
	}
	if err != nil {
		log.Fatal("Failed to create user", zap.String("username", input.Username), zap.Error(err))
	}

	fmt.Printf("created user %s (%s) staff=%t\n", user.Username, user.ID, user.IsStaff)
}
