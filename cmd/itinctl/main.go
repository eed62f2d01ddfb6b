package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medtour-itinerary-service/internal/app"
	"medtour-itinerary-service/internal/infrastructure/config"
	"medtour-itinerary-service/pkg/logger"
	"medtour-itinerary-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "itinctl",
		Short:        "Operator tool for itinerary repair and diagnostics",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(repairCmd())
	rootCmd.AddCommand(orderCmd("diagnose", "Report flights, stays, issues and a recommended timeline", func(ctx context.Context, a *app.App, id string) (interface{}, error) {
		return a.Validator.Diagnose(ctx, id)
	}))
	rootCmd.AddCommand(orderCmd("validate", "Validate an order timeline without writing", func(ctx context.Context, a *app.App, id string) (interface{}, error) {
		return a.Validator.Validate(ctx, id)
	}))
	rootCmd.AddCommand(orderCmd("timeline", "Print the projected timeline", func(ctx context.Context, a *app.App, id string) (interface{}, error) {
		return a.Projector.Project(ctx, id)
	}))
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(pdfCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// withApp loads config, wires the application and closes it after fn
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	ctx := cmd.Context()
	// metrics are not scraped from the CLI
	m := metrics.NewMetricsWithRegistry(cfg.MetricsNamespace, prometheus.NewRegistry())
	a, err := app.New(ctx, cfg, m, log)
	if err != nil {
		return err
	}
	defer a.Close(context.WithoutCancel(ctx))
	return fn(ctx, a)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func repairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair <operation> <order-id>...",
		Short: "Run fix-flights, adjust-timeline, correct-direction or allocate-attractions over orders",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				runs, err := a.Orchestrator.Run(ctx, args[0], args[1:])
				if err != nil {
					return err
				}
				return printJSON(runs)
			})
		},
	}
}

func orderCmd(use, short string, run func(ctx context.Context, a *app.App, id string) (interface{}, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <order-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := run(ctx, a, args[0])
				if err != nil {
					return err
				}
				return printJSON(res)
			})
		},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <order-id>",
		Short: "List recorded repair runs of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				runs, err := a.Orchestrator.History(ctx, args[0], limit)
				if err != nil {
					return err
				}
				return printJSON(runs)
			})
		},
	}
	cmd.Flags().Int("limit", 20, "maximum number of runs")
	return cmd
}

func routeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route <origin> <destination>",
		Short: "Resolve a city pair and preview the flight details it would produce",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("departure")
			seed, _ := cmd.Flags().GetString("seed")
			var departure time.Time
			if raw != "" {
				var err error
				if departure, err = time.Parse(time.RFC3339, raw); err != nil {
					return fmt.Errorf("invalid --departure: %w", err)
				}
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				preview, err := a.Previewer.Preview(ctx, args[0], args[1], departure, seed)
				if err != nil {
					return err
				}
				return printJSON(preview)
			})
		},
	}
	cmd.Flags().String("departure", "", "departure time (RFC3339), default tomorrow 10:00 UTC")
	cmd.Flags().String("seed", "", "order id used to seed synthetic flight data")
	return cmd
}

func pdfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdf <order-id>",
		Short: "Write the projected timeline of an order as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = "itinerary-" + args[0] + ".pdf"
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				timeline, err := a.Projector.Project(ctx, args[0])
				if err != nil {
					return err
				}
				data, err := a.PDF.Render(timeline)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	cmd.Flags().StringP("out", "o", "", "output file")
	return cmd
}
