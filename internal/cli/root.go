// internal/cli/root.go
// Package cli defines the cobra commands for the nutrition bot. The root
// command runs the bot itself.
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"nutrition-bot/internal/bot"
	"nutrition-bot/internal/config"
	"nutrition-bot/internal/estimator"
	"nutrition-bot/internal/health"
	"nutrition-bot/internal/storage"
)

var (
	configPath string
	version    = "dev" // set via ldflags at build time
)

var rootCmd = &cobra.Command{
	Use:   "nutrition-bot",
	Short: "Telegram bot that tracks nutrition from food photos",
	Long: `Nutrition-bot watches a private Telegram chat for food photos,
asks a vision model for a nutrition estimate, stores every meal in
SQLite and reports daily totals against your protein goal.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runBot,
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Path to the optional YAML config file")

	rootCmd.AddCommand(statsCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	// A .env file is a local convenience, deployments set the
	// environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	b, err := bot.New(cfg, store, estimator.NewClient(cfg.GeminiAPIKey, cfg.Model))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- b.Run(ctx)
	}()

	var healthSrv *health.Server
	if cfg.HealthAddr != "" {
		healthSrv = health.NewServer(cfg.HealthAddr)
		go func() {
			if err := healthSrv.Start(); err != nil {
				log.Printf("Health listener error: %v", err)
			}
		}()
	}

	// Wait for shutdown signal or bot exit
	select {
	case <-sigCh:
		log.Println("Received shutdown signal")
	case err := <-errCh:
		if err != nil {
			log.Printf("Bot error: %v", err)
		}
	}

	log.Println("Shutting down...")
	cancel()
	if healthSrv != nil {
		if err := healthSrv.Stop(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}

	return nil
}
