// Package models defines data structures used across the application.
// File: models/event.go
package models

// ----------------------- entry type -----------------------

// EntryType says which kind of registration a category accepts.
type EntryType string

const (
	EntryIndividual EntryType = "individual"
	EntryTeam       EntryType = "team"
	EntryMixed      EntryType = "mixed"
)

// AllowsMode reports whether a category with this entry type may be offered
// for selection in the given registration mode.
func (t EntryType) AllowsMode(mode Mode) bool {
	switch mode {
	case ModeIndividual:
		return t == EntryIndividual || t == EntryMixed
	case ModeTeam:
		return t == EntryTeam || t == EntryMixed
	default:
		return false
	}
}

// ----------------------- competition model -----------------------

// Competition is a dated instance within an event that a rider or team enters.
type Competition struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ----------------------- category model -----------------------

// Category is a competitive bracket with entry-type, age and gender constraints.
// MinAgeYears/MaxAgeYears and the team-size bounds are optional in the upstream
// payload; nil means unset.
type Category struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	EntryType         EntryType `json:"entry_type"`
	MinTeamSize       *int      `json:"min_team_size,omitempty"`
	MaxTeamSize       *int      `json:"max_team_size,omitempty"`
	AgeGroupLabel     string    `json:"age_group_label,omitempty"`
	MinAgeYears       *int      `json:"min_age_years,omitempty"`
	MaxAgeYears       *int      `json:"max_age_years,omitempty"`
	GenderRestriction string    `json:"gender_restriction,omitempty"` // "male", "female", "mixed" or empty
}

// Fallback team-size bounds when a team category leaves them unset.
const (
	DefaultMinTeamSize = 2
	DefaultMaxTeamSize = 4
)

// AgeBounds returns the inclusive age band for the category, substituting
// 0 and 100 for unset bounds.
func (c *Category) AgeBounds() (int, int) {
	min, max := 0, 100
	if c.MinAgeYears != nil {
		min = *c.MinAgeYears
	}
	if c.MaxAgeYears != nil {
		max = *c.MaxAgeYears
	}
	return min, max
}

// TeamSizeBounds returns the inclusive rider-count range a team must satisfy
// to enter this category, defaulting to 2-4 when unset.
func (c *Category) TeamSizeBounds() (int, int) {
	min, max := DefaultMinTeamSize, DefaultMaxTeamSize
	if c.MinTeamSize != nil {
		min = *c.MinTeamSize
	}
	if c.MaxTeamSize != nil {
		max = *c.MaxTeamSize
	}
	return min, max
}

// AcceptsGender reports whether the category admits a rider of the given
// gender. An empty or "mixed" restriction admits everyone.
func (c *Category) AcceptsGender(gender string) bool {
	return c.GenderRestriction == "" || c.GenderRestriction == "mixed" || c.GenderRestriction == gender
}

// ----------------------- event model -----------------------

// SubEvent is a named grouping of categories within an event,
// e.g. "Show Jumping" or "Tent Pegging".
type SubEvent struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// EventDefinition is the read-only event metadata fetched from the upstream
// platform. It drives category resolution and selection filtering; the
// registration engine never mutates it.
type EventDefinition struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	SubEvents    []SubEvent    `json:"sub_events"`
	Competitions []Competition `json:"competitions"`
}

// FindCategory scans every sub-event for the category with the given id.
func (e *EventDefinition) FindCategory(categoryID string) *Category {
	for si := range e.SubEvents {
		for ci := range e.SubEvents[si].Categories {
			if e.SubEvents[si].Categories[ci].ID == categoryID {
				return &e.SubEvents[si].Categories[ci]
			}
		}
	}
	return nil
}

// FindCompetition returns the competition with the given id, or nil.
func (e *EventDefinition) FindCompetition(competitionID string) *Competition {
	for i := range e.Competitions {
		if e.Competitions[i].ID == competitionID {
			return &e.Competitions[i]
		}
	}
	return nil
}
