package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"tripplanner/config"
	"tripplanner/handlers"
	"tripplanner/planner"
)

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tripplanner",
		Short:        "Multi-city travel itinerary planner",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), a2aCmd(), planCmd(), buildIndexCmd())
	return root
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	return newApp(ctx, cfg)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and the plan_trip tool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			r := handlers.NewRouter(a.planner, a.caps, a.cfg.FrontendURL)
			log.Printf("🚀 tripplanner starting on port %s", a.cfg.Port)
			return r.Run(":" + a.cfg.Port)
		},
	}
}

func a2aCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "a2a",
		Short: "Serve the agent-to-agent wrapper that forwards to the tool server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.GinMode == "release" {
				gin.SetMode(gin.ReleaseMode)
			}

			r := handlers.NewA2ARouter(handlers.NewToolForwarder(cfg.MCPURL))
			log.Printf("🚀 a2a wrapper starting on port %s (tool: %s)", cfg.A2APort, cfg.MCPURL)
			return r.Run(":" + cfg.A2APort)
		},
	}
}

func planCmd() *cobra.Command {
	var (
		req  planner.TripRequest
		opts planner.Options
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan one trip and print the resulting state as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			st := a.planner.Plan(cmd.Context(), req, opts)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Destinations, "destinations", "Paris -> Rome", "cities separated by ->")
	f.StringVar(&req.Dates, "dates", "", "comma-separated travel dates, one per hop")
	f.IntVar(&req.Budget, "budget", handlers.DefaultBudget, "budget in USD")
	f.StringVar(&req.Interests, "interests", "history, art, food", "free-text interests")
	f.BoolVar(&opts.UseLive, "live", false, "query live flight and hotel offers")
	f.BoolVar(&opts.UseRAG, "rag", false, "add travel-blog tips")
	return cmd
}

func buildIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build-index",
		Short: "Scrape tip sources and build the tip index if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			if a.retriever == nil {
				return fmt.Errorf("tip store %q is unavailable", a.cfg.TipsStore)
			}

			if err := a.retriever.EnsureIndex(cmd.Context()); err != nil {
				return fmt.Errorf("build tip index: %w", err)
			}
			return nil
		},
	}
}
