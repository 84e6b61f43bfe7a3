package services

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/internal/config"
	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/clients/availability"
	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/roster"
)

// RosterSource provides the spreadsheet tabs the scheduler reads
type RosterSource interface {
	ListProviders(cfg *config.Config) ([]roster.Worker, error)
	ListTags(cfg *config.Config) (map[string][]roster.Tag, error)
	ListSites(cfg *config.Config) ([]roster.Site, map[string][]string, error)
}

// GenerateScheduleResult contains one engine run and its identifying seed
type GenerateScheduleResult struct {
	RunID  string
	Seed   int64
	Result *roster.Result
}

// LoadInput assembles the engine input snapshot: providers with their tags,
// sites with their group mapping, and per-provider blackout dates joined by
// normalized-name matching. Unmatched providers are treated fully available.
func LoadInput(source RosterSource, cfg *config.Config, logger *zap.Logger) (*roster.Input, error) {
	logger.Debug("Fetching providers")
	workers, err := source.ListProviders(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load providers: %w", err)
	}
	logger.Info("Loaded providers", zap.Int("count", len(workers)))

	tags, err := source.ListTags(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	for i := range workers {
		workers[i].Tags = tags[workers[i].Name]
	}
	logger.Info("Loaded tags", zap.Int("tagged_providers", len(tags)))

	sites, groups, err := source.ListSites(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load sites: %w", err)
	}
	logger.Info("Loaded sites", zap.Int("count", len(sites)), zap.Int("groups", len(groups)))

	logger.Debug("Loading individual schedules", zap.String("dir", cfg.SchedulesDir))
	byExportName, err := availability.LoadDir(cfg.SchedulesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}

	names := make([]string, 0, len(workers))
	for _, w := range workers {
		names = append(names, w.Name)
	}
	unavailable, unmatched := availability.Resolve(names, byExportName)
	logger.Info("Matched schedule exports",
		zap.Int("matched", len(workers)-len(unmatched)),
		zap.Int("unmatched", len(unmatched)))
	if len(unmatched) > 0 {
		logger.Warn("Providers without schedule exports treated fully available",
			zap.Strings("providers", unmatched))
	}

	return &roster.Input{
		Workers:     workers,
		Sites:       sites,
		SiteGroups:  groups,
		Unavailable: unavailable,
	}, nil
}

// engineConfig maps the YAML engine section onto the roster engine knobs
func engineConfig(cfg *config.Config, seed int64) (roster.Config, error) {
	start, end, err := cfg.Engine.BlockDates()
	if err != nil {
		return roster.Config{}, err
	}
	return roster.Config{
		BlockStart:                  start,
		BlockEnd:                    end,
		BlocksPerYear:               cfg.Engine.BlocksPerYear,
		Seed:                        seed,
		MaxRebalanceIters:           cfg.Engine.MaxRebalanceIters,
		MaxLevelIters:               cfg.Engine.MaxLevelIters,
		MaxConsecutiveWeeks:         cfg.Engine.MaxConsecutiveWeeks,
		AbsoluteMaxConsecutiveWeeks: cfg.Engine.AbsoluteMaxConsecutiveWeeks,
		OverflowSite:                cfg.Engine.OverflowSite,
	}, nil
}

// GenerateSchedule runs the engine once over freshly loaded input using the
// configured seed
func GenerateSchedule(source RosterSource, cfg *config.Config, logger *zap.Logger) (*GenerateScheduleResult, error) {
	input, err := LoadInput(source, cfg, logger)
	if err != nil {
		return nil, err
	}
	return runEngine(input, cfg, cfg.Engine.Seed, logger)
}

func runEngine(input *roster.Input, cfg *config.Config, seed int64, logger *zap.Logger) (*GenerateScheduleResult, error) {
	ecfg, err := engineConfig(cfg, seed)
	if err != nil {
		return nil, err
	}

	logger.Info("Running block engine", zap.Int64("seed", seed))
	res, err := roster.Run(*input, ecfg)
	if err != nil {
		return nil, fmt.Errorf("engine run failed: %w", err)
	}

	logger.Info("Engine run complete",
		zap.Int64("seed", seed),
		zap.Int("assignments", len(res.Assignments)),
		zap.Int("stretches", res.StretchCounts.Stretches),
		zap.Int("cross_site", res.StretchCounts.CrossSite),
		zap.Int("rebalance_moves", res.RebalanceMoves),
		zap.Int("level_moves", res.LevelMoves),
		zap.Int("cross_fill_moves", res.CrossFillMoves),
		zap.Int("overrides", len(res.Overrides)),
		zap.Int("residual_shortfall", res.ResidualShortfall),
		zap.Int("obligation_gap", res.ObligationGap))

	return &GenerateScheduleResult{
		RunID:  uuid.New().String(),
		Seed:   seed,
		Result: res,
	}, nil
}
