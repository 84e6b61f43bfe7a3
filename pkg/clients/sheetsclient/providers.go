package sheetsclient

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/internal/config"
	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/roster"
)

// Expected column names in the Providers tab. Columns prefixed "pct_" are
// discovered dynamically and become site-group percentage keys.
var providerFields = []string{
	"provider_name",
	"shift_type",
	"fte",
	"annual_weeks",
	"annual_weekends",
	"weeks_remaining",
	"weekends_remaining",
}

// groupPctPrefix marks the Providers tab columns carrying per-group
// allocation percentages; the group key is the column name minus the prefix
const groupPctPrefix = "pct_"

// ListProviders retrieves and parses workers from the configured spreadsheet
func (c *Client) ListProviders(cfg *config.Config) ([]roster.Worker, error) {
	values, err := c.GetValues(cfg.ProviderSheetID, cfg.ProvidersTab)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("providers tab is empty")
	}

	workers, err := parseProviders(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse providers: %w", err)
	}

	return workers, nil
}

type headerIndex struct {
	fields map[string]int
	// groups maps group keys to their pct_ column index
	groups map[string]int
}

func indexHeader(headerRow []interface{}, required []string) (*headerIndex, error) {
	idx := &headerIndex{
		fields: make(map[string]int),
		groups: make(map[string]int),
	}

	for i, cell := range headerRow {
		name, ok := cell.(string)
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		idx.fields[name] = i
		if strings.HasPrefix(name, groupPctPrefix) {
			idx.groups[strings.TrimPrefix(name, groupPctPrefix)] = i
		}
	}

	for _, field := range required {
		if _, ok := idx.fields[field]; !ok {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
	}

	return idx, nil
}

func (h *headerIndex) get(field string, row []interface{}) string {
	index, ok := h.fields[field]
	if !ok || index >= len(row) {
		return ""
	}
	if str, ok := row[index].(string); ok {
		return strings.TrimSpace(str)
	}
	return ""
}

// parseDecimal parses a possibly empty cell into a decimal quota value
func parseDecimal(val string) (decimal.Decimal, error) {
	if val == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(val)
}

func parseFloat(val string) (float64, error) {
	if val == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// parseProviders converts raw spreadsheet data into Worker structs.
// Malformed numeric cells fail the whole load rather than silently
// producing a worker with a zeroed quota.
func parseProviders(raw [][]interface{}) ([]roster.Worker, error) {
	idx, err := indexHeader(raw[0], providerFields)
	if err != nil {
		return nil, err
	}

	workers := make([]roster.Worker, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		name := idx.get("provider_name", row)
		// Skip blank rows
		if name == "" {
			continue
		}

		w := roster.Worker{
			Name:          name,
			ShiftType:     idx.get("shift_type", row),
			GroupPercents: make(map[string]float64, len(idx.groups)),
		}

		if w.FTE, err = parseFloat(idx.get("fte", row)); err != nil {
			return nil, fmt.Errorf("row %d (%s): bad fte: %w", i+1, name, err)
		}
		if w.AnnualWeeks, err = parseDecimal(idx.get("annual_weeks", row)); err != nil {
			return nil, fmt.Errorf("row %d (%s): bad annual_weeks: %w", i+1, name, err)
		}
		if w.AnnualWeekends, err = parseDecimal(idx.get("annual_weekends", row)); err != nil {
			return nil, fmt.Errorf("row %d (%s): bad annual_weekends: %w", i+1, name, err)
		}
		if w.WeeksRemaining, err = parseDecimal(idx.get("weeks_remaining", row)); err != nil {
			return nil, fmt.Errorf("row %d (%s): bad weeks_remaining: %w", i+1, name, err)
		}
		if w.WeekendsRemaining, err = parseDecimal(idx.get("weekends_remaining", row)); err != nil {
			return nil, fmt.Errorf("row %d (%s): bad weekends_remaining: %w", i+1, name, err)
		}

		for group, col := range idx.groups {
			if col >= len(row) {
				continue
			}
			cell, _ := row[col].(string)
			pct, err := parseFloat(strings.TrimSpace(cell))
			if err != nil {
				return nil, fmt.Errorf("row %d (%s): bad %s%s: %w", i+1, name, groupPctPrefix, group, err)
			}
			w.GroupPercents[group] = pct
		}

		for _, col := range []string{"holiday_1", "holiday_2"} {
			if v := idx.get(col, row); v != "" {
				w.HolidayPrefs = append(w.HolidayPrefs, v)
			}
		}

		workers = append(workers, w)
	}

	return workers, nil
}
