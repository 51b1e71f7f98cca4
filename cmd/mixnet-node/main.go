package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/provotum/mixnet-node/api"
	"github.com/provotum/mixnet-node/chain"
	"github.com/provotum/mixnet-node/db/metadb"
	"github.com/provotum/mixnet-node/log"
	"github.com/provotum/mixnet-node/storage"
)

// Version is the build version, set at build time with -ldflags
var Version = "dev"

// Services holds all the running services
type Services struct {
	Storage *storage.Storage
	Chain   *chain.Client
	API     *api.API
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log.Level, cfg.Log.Output)
	log.Infow("starting mixnet-node", "version", Version)

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := setupServices(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to setup services: %v", err)
	}
	defer shutdownServices(services)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Infow("received signal, shutting down", "signal", sig.String())
}

// setupServices initializes and starts all required services
func setupServices(ctx context.Context, cfg *Config) (*Services, error) {
	services := &Services{}

	database, err := metadb.New(cfg.DBType, path.Join(cfg.Datadir, cfg.DBType))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if services.Storage, err = storage.New(database); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Infow("connecting to blockchain node", "url", cfg.Chain.URL)
	if services.Chain, err = chain.Dial(ctx, cfg.Chain.URL); err != nil {
		return nil, fmt.Errorf("failed to connect to the blockchain node: %w", err)
	}

	api.Version = Version
	if services.API, err = api.New(ctx, &api.APIConfig{
		Host:    cfg.API.Host,
		Port:    cfg.API.Port,
		Storage: services.Storage,
		Chain:   services.Chain,
	}); err != nil {
		return nil, fmt.Errorf("failed to start the API service: %w", err)
	}

	return services, nil
}

// shutdownServices closes the chain client and the storage, in reverse setup
// order. The API server has no close hook and stops when the process exits.
func shutdownServices(services *Services) {
	if services.Chain != nil {
		services.Chain.Close()
	}
	if services.Storage != nil {
		if err := services.Storage.Close(); err != nil {
			log.Warnw("failed to close storage", "error", err.Error())
		}
	}
	log.Info("shutdown complete")
}
