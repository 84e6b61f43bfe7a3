// Package availability builds per-worker blackout dates from the
// individual schedule JSON exports, matching export names to roster names
// despite differing credential suffixes and name ordering.
package availability

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const statusUnavailable = "unavailable"

// scheduleFile is the shape of one exported schedule JSON
type scheduleFile struct {
	Name string `json:"name"`
	Days []struct {
		Date   string `json:"date"`
		Status string `json:"status"`
	} `json:"days"`
}

// LoadDir reads every schedule JSON in dir and returns unavailable dates
// keyed by the export's own name spelling. Files that fail to parse are
// skipped; a missing directory is an error.
func LoadDir(dir string) (map[string][]time.Time, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedules directory: %w", err)
	}

	out := make(map[string][]time.Time)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		var sf scheduleFile
		if err := json.Unmarshal(data, &sf); err != nil {
			continue
		}

		name := strings.TrimSpace(sf.Name)
		if name == "" {
			continue
		}

		for _, day := range sf.Days {
			if day.Status != statusUnavailable {
				continue
			}
			d, err := time.Parse("2006-01-02", day.Date)
			if err != nil {
				continue
			}
			out[name] = append(out[name], d)
		}
		if _, ok := out[name]; !ok {
			out[name] = nil
		}
	}

	for name := range out {
		sort.Slice(out[name], func(i, j int) bool { return out[name][i].Before(out[name][j]) })
	}

	return out, nil
}

// credentialSuffixes are stripped from names before matching
var credentialSuffixes = []string{" MD", " DO", " PA", " NP", " PA-C", " MBBS"}

// Normalize canonicalizes a name for matching: uppercase, credential
// suffixes stripped, periods removed, whitespace collapsed
func Normalize(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	for _, suffix := range credentialSuffixes {
		n = strings.TrimSuffix(n, suffix)
	}
	n = strings.ReplaceAll(n, ".", "")
	return strings.Join(strings.Fields(n), " ")
}

// shortForm collapses "Last, First Middle" to "Last, First"
func shortForm(normalized string) (string, bool) {
	last, rest, ok := strings.Cut(normalized, ",")
	if !ok {
		return "", false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", false
	}
	return strings.TrimSpace(last) + ", " + fields[0], true
}

// Index maps normalized schedule-export names back to their original
// spelling
type Index map[string]string

// BuildIndex indexes the schedule-export names under their normalized and
// short forms
func BuildIndex(names []string) Index {
	idx := make(Index, len(names))
	for _, name := range names {
		norm := Normalize(name)
		idx[norm] = name
		if short, ok := shortForm(norm); ok {
			idx[short] = name
		}
	}
	return idx
}

// Match resolves a roster name to a schedule-export name, trying the full
// normalized form first and the "Last, First" short form second. ok=false
// means no export covers the worker, who is then treated fully available.
func (idx Index) Match(rosterName string) (string, bool) {
	norm := Normalize(rosterName)
	if orig, ok := idx[norm]; ok {
		return orig, true
	}
	if short, ok := shortForm(norm); ok {
		if orig, ok := idx[short]; ok {
			return orig, true
		}
	}
	return "", false
}

// Resolve maps each roster name to its blackout dates via name matching.
// Returns the per-roster-name blackouts and the roster names with no
// matching export.
func Resolve(rosterNames []string, byExportName map[string][]time.Time) (map[string][]time.Time, []string) {
	exportNames := make([]string, 0, len(byExportName))
	for name := range byExportName {
		exportNames = append(exportNames, name)
	}
	sort.Strings(exportNames)
	idx := BuildIndex(exportNames)

	matched := make(map[string][]time.Time)
	var unmatched []string
	for _, name := range rosterNames {
		exportName, ok := idx.Match(name)
		if !ok {
			unmatched = append(unmatched, name)
			continue
		}
		if dates := byExportName[exportName]; len(dates) > 0 {
			matched[name] = dates
		}
	}

	return matched, unmatched
}
