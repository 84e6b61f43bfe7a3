package sheetsclient

import (
	"fmt"
	"strconv"

	"github.com/akiddo-bob/hospitalist-scheduler-sub001/internal/config"
	"github.com/akiddo-bob/hospitalist-scheduler-sub001/pkg/core/roster"
)

var siteFields = []string{
	"site",
	"day_type",
	"providers_needed",
	"group",
}

// Day-type values expected in the Sites tab
const (
	dayTypeWeekday = "weekday"
	dayTypeWeekend = "weekend"
)

// ListSites retrieves the Sites tab: one row per site × day-type carrying
// the demand, plus the site-group key linking sites to the Providers tab's
// pct_ columns. Returns the sites and the group → sites mapping.
func (c *Client) ListSites(cfg *config.Config) ([]roster.Site, map[string][]string, error) {
	values, err := c.GetValues(cfg.ProviderSheetID, cfg.SitesTab)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get site data: %w", err)
	}

	if len(values) == 0 {
		return nil, nil, fmt.Errorf("sites tab is empty")
	}

	return parseSites(values)
}

func parseSites(raw [][]interface{}) ([]roster.Site, map[string][]string, error) {
	idx, err := indexHeader(raw[0], siteFields)
	if err != nil {
		return nil, nil, err
	}

	type siteRow struct {
		site  roster.Site
		group string
	}
	byName := make(map[string]*siteRow)
	var order []string

	for i := 1; i < len(raw); i++ {
		row := raw[i]

		name := idx.get("site", row)
		if name == "" {
			continue
		}

		needed, err := strconv.Atoi(idx.get("providers_needed", row))
		if err != nil {
			return nil, nil, fmt.Errorf("row %d (%s): bad providers_needed: %w", i+1, name, err)
		}

		sr, ok := byName[name]
		if !ok {
			sr = &siteRow{site: roster.Site{Name: name}}
			byName[name] = sr
			order = append(order, name)
		}

		switch dayType := idx.get("day_type", row); dayType {
		case dayTypeWeekday:
			sr.site.WeekdayDemand = needed
		case dayTypeWeekend:
			sr.site.WeekendDemand = needed
		default:
			return nil, nil, fmt.Errorf("row %d (%s): unknown day_type %q", i+1, name, dayType)
		}

		if group := idx.get("group", row); group != "" {
			if sr.group != "" && sr.group != group {
				return nil, nil, fmt.Errorf("site %s listed under both group %q and group %q",
					name, sr.group, group)
			}
			sr.group = group
		}
	}

	sites := make([]roster.Site, 0, len(order))
	groups := make(map[string][]string)
	for _, name := range order {
		sr := byName[name]
		if sr.group == "" {
			return nil, nil, fmt.Errorf("site %s has no group", name)
		}
		sites = append(sites, sr.site)
		groups[sr.group] = append(groups[sr.group], name)
	}

	return sites, groups, nil
}
