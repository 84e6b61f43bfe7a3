package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testGroups = map[string][]string{
	"north": {"Elmer", "Vineland"},
	"south": {"Main Campus", "Overflow"},
}

func TestEligibleSitesUnionOfPositiveGroups(t *testing.T) {
	w := Worker{
		Name:          "ana",
		GroupPercents: map[string]float64{"north": 0.6, "south": 0.4},
	}
	assert.Equal(t, []string{"Elmer", "Main Campus", "Overflow", "Vineland"},
		EligibleSites(w, testGroups))
}

func TestEligibleSitesZeroPercentDisablesGroup(t *testing.T) {
	w := Worker{
		Name:          "ana",
		GroupPercents: map[string]float64{"north": 1.0, "south": 0},
	}
	assert.Equal(t, []string{"Elmer", "Vineland"}, EligibleSites(w, testGroups))
}

func TestEligibleSitesRestrictionTag(t *testing.T) {
	w := Worker{
		Name:          "ana",
		GroupPercents: map[string]float64{"north": 1.0, "south": 0.5},
		Tags:          []Tag{{Name: "no_elmer"}, {Name: "no_main_campus"}},
	}
	// Tag keys match lowercased, underscore-joined site names
	assert.Equal(t, []string{"Overflow", "Vineland"}, EligibleSites(w, testGroups))
}

func TestEligibleSitesEmptyWhenNoGroups(t *testing.T) {
	w := Worker{Name: "ana"}
	assert.Empty(t, EligibleSites(w, testGroups))
}

func TestDoNotSchedule(t *testing.T) {
	assert.True(t, DoNotSchedule(Worker{Tags: []Tag{{Name: "do_not_schedule"}}}))
	assert.False(t, DoNotSchedule(Worker{Tags: []Tag{{Name: "no_elmer"}}}))
	assert.False(t, DoNotSchedule(Worker{}))
}
