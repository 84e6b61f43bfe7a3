package services

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/internal/config"
)

// GenerateVariants runs the engine once per seed, starting from the
// configured base seed, and returns the runs ranked best first: smallest
// residual site shortfall, then smallest unmet worker obligation. The
// input snapshot is loaded once and shared — each run only varies the seed.
func GenerateVariants(source RosterSource, cfg *config.Config, logger *zap.Logger, count int) ([]*GenerateScheduleResult, error) {
	if count < 1 {
		return nil, fmt.Errorf("variant count must be positive, got %d", count)
	}

	input, err := LoadInput(source, cfg, logger)
	if err != nil {
		return nil, err
	}

	variants := make([]*GenerateScheduleResult, 0, count)
	for i := 0; i < count; i++ {
		seed := cfg.Engine.Seed + int64(i)
		run, err := runEngine(input, cfg, seed, logger)
		if err != nil {
			return nil, fmt.Errorf("variant with seed %d failed: %w", seed, err)
		}
		variants = append(variants, run)
	}

	sort.SliceStable(variants, func(i, j int) bool {
		a, b := variants[i].Result, variants[j].Result
		if a.ResidualShortfall != b.ResidualShortfall {
			return a.ResidualShortfall < b.ResidualShortfall
		}
		return a.ObligationGap < b.ObligationGap
	})

	logger.Info("Variants ranked",
		zap.Int("count", len(variants)),
		zap.Int64("best_seed", variants[0].Seed),
		zap.Int("best_residual_shortfall", variants[0].Result.ResidualShortfall))

	return variants, nil
}
