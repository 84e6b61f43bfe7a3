package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/internal/config"
	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/calendar"
	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/roster"
)

// fakeSource serves a fixed in-memory roster
type fakeSource struct {
	workers []roster.Worker
	tags    map[string][]roster.Tag
	sites   []roster.Site
	groups  map[string][]string
}

func (f *fakeSource) ListProviders(*config.Config) ([]roster.Worker, error) { return f.workers, nil }
func (f *fakeSource) ListTags(*config.Config) (map[string][]roster.Tag, error) {
	return f.tags, nil
}
func (f *fakeSource) ListSites(*config.Config) ([]roster.Site, map[string][]string, error) {
	return f.sites, f.groups, nil
}

func worker(name string, weeks, weekends float64) roster.Worker {
	return roster.Worker{
		Name:              name,
		FTE:               1.0,
		AnnualWeeks:       decimal.NewFromFloat(weeks * 3),
		AnnualWeekends:    decimal.NewFromFloat(weekends * 3),
		WeeksRemaining:    decimal.NewFromFloat(weeks),
		WeekendsRemaining: decimal.NewFromFloat(weekends),
		GroupPercents:     map[string]float64{"acute": 1.0},
	}
}

func testSetup(t *testing.T) (*fakeSource, *config.Config) {
	t.Helper()

	schedulesDir := t.TempDir()
	export := `{
		"name": "Smith, Jane MD",
		"days": [{"date": "2025-09-08", "status": "unavailable"}]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(schedulesDir, "jane.json"), []byte(export), 0o644))

	source := &fakeSource{
		workers: []roster.Worker{
			worker("Smith, Jane", 2, 1),
			worker("Jones, Sam", 2, 1),
		},
		tags: map[string][]roster.Tag{
			"Jones, Sam": {{Name: "no_elmer"}},
		},
		sites: []roster.Site{
			{Name: "Elmer", WeekdayDemand: 1, WeekendDemand: 1},
			{Name: "Main", WeekdayDemand: 1, WeekendDemand: 1},
		},
		groups: map[string][]string{"acute": {"Elmer", "Main"}},
	}

	cfg := &config.Config{
		ProviderSheetID: "sheet",
		ProvidersTab:    "Providers",
		TagsTab:         "Provider Tags",
		SitesTab:        "Sites",
		SchedulesDir:    schedulesDir,
		Engine: config.EngineConfig{
			BlockStart:                  "2025-09-01",
			BlockEnd:                    "2025-09-28",
			BlocksPerYear:               3,
			Seed:                        42,
			MaxRebalanceIters:           50,
			MaxLevelIters:               100,
			MaxConsecutiveWeeks:         2,
			AbsoluteMaxConsecutiveWeeks: 3,
		},
	}

	return source, cfg
}

func TestLoadInputJoinsTagsAndAvailability(t *testing.T) {
	source, cfg := testSetup(t)

	input, err := LoadInput(source, cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, input.Workers, 2)

	// Tags attached by provider name
	var sam roster.Worker
	for _, w := range input.Workers {
		if w.Name == "Jones, Sam" {
			sam = w
		}
	}
	require.Len(t, sam.Tags, 1)
	assert.Equal(t, "no_elmer", sam.Tags[0].Name)

	// Jane's export matched despite the credential suffix
	require.Contains(t, input.Unavailable, "Smith, Jane")
	assert.Len(t, input.Unavailable["Smith, Jane"], 1)
	// Sam has no export: fully available
	assert.NotContains(t, input.Unavailable, "Jones, Sam")
}

func TestGenerateSchedule(t *testing.T) {
	source, cfg := testSetup(t)

	run, err := GenerateSchedule(source, cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, run.Result)

	assert.Equal(t, int64(42), run.Seed)
	assert.NotEmpty(t, run.RunID)
	assert.NotEmpty(t, run.Result.Assignments)

	// Jane's blackout covers Monday of week 2, so she can never hold that
	// week's weekday block; Sam never lands at the tag-struck site
	for _, a := range run.Result.Assignments {
		if a.Worker == "Smith, Jane" {
			p := run.Result.Periods[a.Period]
			assert.False(t, p.Week == 2 && p.Type == calendar.Weekday, "placed over blackout")
		}
		if a.Worker == "Jones, Sam" {
			assert.NotEqual(t, "Elmer", a.Site)
		}
	}
}

func TestGenerateVariants(t *testing.T) {
	source, cfg := testSetup(t)

	variants, err := GenerateVariants(source, cfg, zap.NewNop(), 3)
	require.NoError(t, err)
	require.Len(t, variants, 3)

	seeds := map[int64]bool{}
	for _, v := range variants {
		seeds[v.Seed] = true
		require.NotNil(t, v.Result)
	}
	assert.Equal(t, map[int64]bool{42: true, 43: true, 44: true}, seeds)

	// Ranked best first
	for i := 1; i < len(variants); i++ {
		prev, cur := variants[i-1].Result, variants[i].Result
		if prev.ResidualShortfall == cur.ResidualShortfall {
			assert.LessOrEqual(t, prev.ObligationGap, cur.ObligationGap)
		} else {
			assert.Less(t, prev.ResidualShortfall, cur.ResidualShortfall)
		}
	}

	_, err = GenerateVariants(source, cfg, zap.NewNop(), 0)
	assert.Error(t, err)
}
