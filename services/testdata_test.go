// file: services/testdata_test.go
package services

import (
	"time"

	"equestrian-entries/models"
)

// intPtr is a shorthand for optional numeric fields on test categories.
func intPtr(v int) *int { return &v }

// fixedToday pins "today" for every age-sensitive test.
var fixedToday = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// testEvent builds the event definition used across the service tests:
// two sub-events, overlapping age bands, one team category with bounds.
func testEvent() *models.EventDefinition {
	return &models.EventDefinition{
		ID:   "evt-100",
		Name: "Spring Horse Trials",
		SubEvents: []models.SubEvent{
			{
				ID:   "se-jumping",
				Name: "Show Jumping",
				Categories: []models.Category{
					{
						ID:          "cat-junior",
						Name:        "Junior",
						EntryType:   models.EntryIndividual,
						MinAgeYears: intPtr(10),
						MaxAgeYears: intPtr(15),
					},
					{
						ID:                "cat-senior-men",
						Name:              "Senior Men",
						EntryType:         models.EntryIndividual,
						MinAgeYears:       intPtr(16),
						MaxAgeYears:       intPtr(40),
						GenderRestriction: "male",
					},
					{
						ID:          "cat-team-open",
						Name:        "Open Teams",
						EntryType:   models.EntryTeam,
						MinTeamSize: intPtr(2),
						MaxTeamSize: intPtr(4),
					},
				},
			},
			{
				ID:   "se-pegging",
				Name: "Tent Pegging",
				Categories: []models.Category{
					{
						ID:                "cat-tp-open",
						Name:              "Tent Pegging Open",
						EntryType:         models.EntryMixed,
						GenderRestriction: "mixed",
					},
				},
			},
		},
		Competitions: []models.Competition{
			{ID: "comp-1", Name: "Saturday Trials", StartDate: "2025-09-06", EndDate: "2025-09-06"},
			{ID: "comp-2", Name: "Sunday Finals", StartDate: "2025-09-07", EndDate: "2025-09-07"},
		},
	}
}

// pinToday overrides the service clock for a test and returns a restore func.
func pinToday(t time.Time) func() {
	old := nowFunc
	nowFunc = func() time.Time { return t }
	return func() { nowFunc = old }
}
