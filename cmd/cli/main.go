package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/internal/config"
	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/clients/sheetsclient"
	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/calendar"
	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/roster"
	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/services"
	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg          *config.Config
	oauthCfg     *config.OAuthClientConfig
	sheetsClient *sheetsclient.Client
	logger       *zap.Logger
	ctx          context.Context
}

var (
	configPath string
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "blockscheduler",
		Short: "Hospitalist block scheduler - propose site rosters for a block",
		Long:  `A CLI tool for generating proposed weekly/weekend site assignments for a scheduling block from provider quotas, site demand, and time-off requests.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: block_scheduler_config.yaml in cwd or home)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(variantsCmd())
	rootCmd.AddCommand(showCalendarCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and the sheets client
func initApp() error {
	var err error

	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger("blockscheduler")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Loading configuration")
	if configPath != "" {
		app.cfg, err = config.LoadFromPath(configPath)
	} else {
		app.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.logger.Info("Loading OAuth client configuration")
	app.oauthCfg, err = config.LoadOAuthClient()
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.logger.Info("Initializing sheets client")
	app.sheetsClient, err = sheetsclient.NewClient(app.ctx, app.oauthCfg)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}

	return nil
}

// Command definitions

func generateCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a proposed block schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				app.cfg.Engine.Seed = seed
			}

			run, err := services.GenerateSchedule(app.sheetsClient, app.cfg, app.logger)
			if err != nil {
				return err
			}

			printRun(run)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Override the configured engine seed")
	return cmd
}

func variantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants <count>",
		Short: "Generate ranked schedule variants from consecutive seeds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("count must be a number: %w", err)
			}

			variants, err := services.GenerateVariants(app.sheetsClient, app.cfg, app.logger, count)
			if err != nil {
				return err
			}

			fmt.Printf("\n%d variants, best first:\n\n", len(variants))
			for i, v := range variants {
				r := v.Result
				fmt.Printf("%2d. seed %-4d run %s\n", i+1, v.Seed, v.RunID)
				fmt.Printf("    shortfall %d, obligation gap %d, stretches %d, overrides %d\n",
					r.ResidualShortfall, r.ObligationGap, r.StretchCounts.Stretches, len(r.Overrides))
			}
			return nil
		},
	}
}

func showCalendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "showCalendar",
		Short: "Show the block's period calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := app.cfg.Engine.BlockDates()
			if err != nil {
				return err
			}

			periods, err := calendar.BuildPeriods(start, end)
			if err != nil {
				return err
			}

			fmt.Printf("\nBlock: %s to %s\n", app.cfg.Engine.BlockStart, app.cfg.Engine.BlockEnd)
			fmt.Printf("Periods: %d weeks, %d weekends\n\n",
				calendar.CountByType(periods, calendar.Weekday),
				calendar.CountByType(periods, calendar.Weekend))
			for _, p := range periods {
				fmt.Println(p.Label())
			}
			return nil
		},
	}
}

func printRun(run *services.GenerateScheduleResult) {
	r := run.Result

	fmt.Printf("\nProposed block schedule (run %s, seed %d)\n", run.RunID, run.Seed)
	fmt.Printf("Assignments: %d | stretches: %d | cross-site: %d | week-only: %d | weekend-only: %d\n",
		len(r.Assignments), r.StretchCounts.Stretches, r.StretchCounts.CrossSite,
		r.StretchCounts.WeekOnly, r.StretchCounts.WeekendOnly)

	fmt.Printf("\nSite fill:\n")
	for _, p := range sortedSiteNames(r) {
		sf := r.SiteFill[p]
		fmt.Printf("  %-20s weekday %d/period, weekend %d/period, short %d, over %d\n",
			sf.Site, sf.WeekdayDemand, sf.WeekendDemand, sf.TotalShort, sf.TotalOver)
	}

	var under []roster.WorkerSummary
	for _, ws := range r.Workers {
		if ws.UnderAssigned {
			under = append(under, ws)
		}
	}
	if len(under) > 0 {
		fmt.Printf("\nUnder-utilized providers: %d\n", len(under))
		for _, ws := range under {
			fmt.Printf("  %-40s wk %d/%d we %d/%d %v\n",
				ws.Name, ws.WeekdayAssigned, ws.WeekdayTarget,
				ws.WeekendAssigned, ws.WeekendTarget, ws.Reasons)
		}
	}

	if len(r.Overrides) > 0 {
		fmt.Printf("\nConsecutive-cap overrides: %d\n", len(r.Overrides))
		for _, o := range r.Overrides {
			fmt.Printf("  %-40s week %d, run of %d weeks\n",
				o.Worker, r.Periods[o.Period].Week, o.RunLength)
		}
	}

	fmt.Printf("\nResidual shortfall: %d | obligation gap: %d\n", r.ResidualShortfall, r.ObligationGap)
}

func sortedSiteNames(r *roster.Result) []string {
	names := make([]string, 0, len(r.SiteFill))
	for name := range r.SiteFill {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
