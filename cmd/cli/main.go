package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/crm-tools/board-insights/pkg/adapters"
	"github.com/crm-tools/board-insights/pkg/models/domain"
	"github.com/crm-tools/board-insights/pkg/services/config"
	"github.com/crm-tools/board-insights/pkg/services/plan"
	"github.com/crm-tools/board-insights/pkg/store/boards"
)

// One-shot analysis without the chat layer: run a plan, print the result
// as JSON.
func main() {
	var (
		cfgPath string
		sources []string
		sector  string
		quarter string
	)

	rootCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one analysis plan against the configured boards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil {
				fmt.Fprintf(os.Stderr, "No .env file loaded: %v\n", err)
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
			ctx := logger.WithContext(cmd.Context())

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

			p := domain.Plan{Filters: domain.Filters{Sector: sector, Quarter: quarter}}
			for _, source := range sources {
				p.DataSources = append(p.DataSources, domain.DataSource(source))
			}

			started := time.Now()
			result := executor.Execute(ctx, p)
			logger.Info().Dur("elapsed", time.Since(started)).Msg("plan executed")

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(adapters.MapExecutionResultDomainToApi(result)); err != nil {
				return err
			}
			if result.Error != "" {
				os.Exit(1)
			}
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a config file")
	rootCmd.Flags().StringSliceVarP(&sources, "sources", "s", []string{"all"}, "Data sources: deals, work_orders, all")
	rootCmd.Flags().StringVar(&sector, "sector", "", "Filter deals by sector substring")
	rootCmd.Flags().StringVar(&quarter, "quarter", "", `Focus on a quarter, e.g. "Q2 2025"`)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
