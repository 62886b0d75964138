package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/crm-tools/board-insights/pkg/handlers/chat"
	"github.com/crm-tools/board-insights/pkg/server"
	"github.com/crm-tools/board-insights/pkg/services/config"
	"github.com/crm-tools/board-insights/pkg/services/interpreter"
	"github.com/crm-tools/board-insights/pkg/services/narrative"
	"github.com/crm-tools/board-insights/pkg/services/plan"
	"github.com/crm-tools/board-insights/pkg/services/session"
	"github.com/crm-tools/board-insights/pkg/store/boards"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Board Insights chat server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a config file (settings also come from BOARD_INSIGHTS_* env vars)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file loaded: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fetcher := boards.NewClient(boards.Settings{
		BaseURL:  cfg.APIBaseURL,
		Token:    cfg.APIToken,
		PageSize: cfg.PageSize,
		Retries:  cfg.FetchRetries,
	})
	executor := plan.NewExecutor(fetcher, plan.Config{
		DealsBoardID:      cfg.DealsBoardID,
		WorkOrdersBoardID: cfg.WorkOrdersBoardID,
		DefaultCurrency:   cfg.DefaultCurrency,
	})

	sessions := session.NewStore(time.Duration(cfg.SessionTTLMinutes) * time.Minute)
	defer sessions.Close()

	chatHandler := chat.NewHandler(
		sessions,
		interpreter.New(cfg.AnthropicAPIKey, cfg.Model),
		executor,
		narrative.New(cfg.AnthropicAPIKey, cfg.Model),
	)

	if cfg.AnthropicAPIKey == "" {
		logger.Info().Msg("no model key configured, using keyword interpretation and template narration")
	}
	logger.Info().
		Str("deals_board", cfg.DealsBoardID).
		Str("work_orders_board", cfg.WorkOrdersBoardID).
		Str("default_currency", cfg.DefaultCurrency).
		Msg("configuration loaded")

	api := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Addr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies:    server.Dependencies{Chat: chatHandler},
	})
	return api.Start()
}
