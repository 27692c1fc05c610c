package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ricardo/email-triage/internal/core"
	"github.com/ricardo/email-triage/internal/di"
	"github.com/ricardo/email-triage/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	gateways []ports.Gateway,
	external core.ExternalClassifier,
	cache core.ResultCache,
) error {
	defer logger.Sync()

	// Start the gateways
	for _, gw := range gateways {
		if err := gw.Start(); err != nil {
			logger.Fatal("Failed to start gateway", zap.Error(err))
			return err
		}
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the gateways
	for _, gw := range gateways {
		if err := gw.Stop(); err != nil {
			logger.Error("Failed to stop gateway", zap.Error(err))
		}
	}

	// Close any resources that need closing
	if closer, ok := external.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close external classifier", zap.Error(err))
		}
	}

	// Stop the cache if needed
	if stopper, ok := cache.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
