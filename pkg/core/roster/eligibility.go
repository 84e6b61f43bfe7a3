package roster

import (
	"sort"
	"strings"
)

// TagDoNotSchedule removes a worker from the block entirely
const TagDoNotSchedule = "do_not_schedule"

// excludeTagPrefix marks tags like "no_elmer" that strike a single site
// from a worker's eligible set
const excludeTagPrefix = "no_"

// DoNotSchedule reports whether the worker carries the do-not-schedule tag
func DoNotSchedule(w Worker) bool {
	for _, t := range w.Tags {
		if t.Name == TagDoNotSchedule {
			return true
		}
	}
	return false
}

// siteKey normalizes a site name the way restriction tags spell it:
// lowercased with spaces collapsed to underscores
func siteKey(site string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(site)), " ", "_")
}

// excludesSite reports whether a tag strikes the given site
func excludesSite(t Tag, site string) bool {
	return strings.HasPrefix(t.Name, excludeTagPrefix) &&
		strings.TrimPrefix(t.Name, excludeTagPrefix) == siteKey(site)
}

// EligibleSites computes the sites a worker may be assigned to: the union
// of site groups where the worker's percentage is positive, minus any site
// struck by a restriction tag. The result is sorted; an empty result means
// the worker is ineligible for this block and fill phases must skip them.
func EligibleSites(w Worker, siteGroups map[string][]string) []string {
	seen := make(map[string]bool)
	var sites []string

	for group, pct := range w.GroupPercents {
		if pct <= 0 {
			continue
		}
		for _, site := range siteGroups[group] {
			if seen[site] {
				continue
			}
			excluded := false
			for _, t := range w.Tags {
				if excludesSite(t, site) {
					excluded = true
					break
				}
			}
			if excluded {
				continue
			}
			seen[site] = true
			sites = append(sites, site)
		}
	}

	sort.Strings(sites)
	return sites
}
