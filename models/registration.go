// Package models defines data structures used across the application.
// File: models/registration.go
package models

import "time"

// ----------------------- registration mode -----------------------

// Mode is the registration mode of a form session.
type Mode string

const (
	ModeIndividual Mode = "individual"
	ModeTeam       Mode = "team"
)

// Valid reports whether the mode is one of the two known modes.
func (m Mode) Valid() bool {
	return m == ModeIndividual || m == ModeTeam
}

// ----------------------- rider model -----------------------

// ProfileImage holds an uploaded rider photo until submission.
type ProfileImage struct {
	Filename string
	Data     []byte
}

// RiderEntry is one participant in a registration session. DerivedAge and
// DerivedCategoryID are always recomputed from DateOfBirth/Gender against the
// loaded event definition; they are never set directly by the caller.
type RiderEntry struct {
	ID                     string        `json:"id"`
	Name                   string        `json:"name"`
	ExternalID             string        `json:"external_id,omitempty"`
	DateOfBirth            time.Time     `json:"date_of_birth"`
	DerivedAge             int           `json:"derived_age"`
	Gender                 string        `json:"gender"`
	DerivedCategoryID      string        `json:"derived_category_id"`
	SelectedCompetitionIDs []string      `json:"selected_competition_ids"` // individual mode only
	Phone                  string        `json:"phone"`
	Email                  string        `json:"email"`
	ProfileImage           *ProfileImage `json:"-"`
}

// HasDateOfBirth reports whether a date of birth has been entered.
func (r *RiderEntry) HasDateOfBirth() bool {
	return !r.DateOfBirth.IsZero()
}

// Clone returns a detached copy of the rider.
func (r *RiderEntry) Clone() *RiderEntry {
	out := *r
	out.SelectedCompetitionIDs = append([]string(nil), r.SelectedCompetitionIDs...)
	if r.ProfileImage != nil {
		img := *r.ProfileImage
		out.ProfileImage = &img
	}
	return &out
}

// ----------------------- registration state -----------------------

// RegistrationState is the whole mutable state of one form session. It is
// created when the session opens, mutated for the life of the session and
// discarded on close or successful submission.
type RegistrationState struct {
	EventID             string        `json:"event_id"`
	Mode                Mode          `json:"mode"`
	TeamName            string        `json:"team_name,omitempty"`
	Riders              []*RiderEntry `json:"riders"`
	SelectedCategoryIDs []string      `json:"selected_category_ids"`
	TeamCompetitionIDs  []string      `json:"team_competition_ids,omitempty"` // team mode only
	ParentName          string        `json:"parent_name,omitempty"`
	CoachName           string        `json:"coach_name,omitempty"`
}

// Rider returns the rider with the given id, or nil.
func (s *RegistrationState) Rider(riderID string) *RiderEntry {
	for _, r := range s.Riders {
		if r.ID == riderID {
			return r
		}
	}
	return nil
}

// Clone returns a deep copy of the state. Readers that hold state across a
// lock boundary take a clone so concurrent mutations cannot touch it.
func (s *RegistrationState) Clone() *RegistrationState {
	out := *s
	out.SelectedCategoryIDs = append([]string(nil), s.SelectedCategoryIDs...)
	out.TeamCompetitionIDs = append([]string(nil), s.TeamCompetitionIDs...)
	out.Riders = make([]*RiderEntry, len(s.Riders))
	for i, r := range s.Riders {
		out.Riders[i] = r.Clone()
	}
	return &out
}

// HasCategory reports membership of categoryID in the selected set.
func (s *RegistrationState) HasCategory(categoryID string) bool {
	for _, id := range s.SelectedCategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}
