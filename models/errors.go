// Package models defines data structures used across the application.
// File: models/errors.go
package models

// ----------------------- field names -----------------------

// Field names shared by the validator, the incremental error clearing in the
// selection state manager and the first-error pointer. The declaration order
// below is the order the submit handler reports the first error in.
const (
	FieldTeamName     = "teamName"
	FieldCategories   = "categories"
	FieldCompetitions = "competitions"
	FieldTeamSize     = "teamSize"

	FieldRiderName        = "name"
	FieldRiderDateOfBirth = "dateOfBirth"
	FieldRiderGender      = "gender"
	FieldRiderPhone       = "phone"
	FieldRiderEmail       = "email"
	FieldRiderCategory    = "category"
)

// AggregateFieldOrder is the reporting order of team-level fields.
var AggregateFieldOrder = []string{FieldTeamName, FieldCategories, FieldCompetitions, FieldTeamSize}

// RiderFieldOrder is the reporting order of per-rider fields.
var RiderFieldOrder = []string{
	FieldRiderName, FieldRiderDateOfBirth, FieldRiderGender,
	FieldRiderPhone, FieldRiderEmail, FieldCompetitions, FieldRiderCategory,
}

// ----------------------- error structures -----------------------

// TeamErrors carries the aggregate (team-level) validation messages.
// In individual mode only Categories is ever populated.
type TeamErrors struct {
	TeamName     string `json:"teamName,omitempty"`
	Categories   string `json:"categories,omitempty"`
	Competitions string `json:"competitions,omitempty"`
	TeamSize     string `json:"teamSize,omitempty"`
}

// Empty reports whether no team-level message is set.
func (t *TeamErrors) Empty() bool {
	return t.TeamName == "" && t.Categories == "" && t.Competitions == "" && t.TeamSize == ""
}

// Get returns the message for a field name, empty when clean.
func (t *TeamErrors) Get(field string) string {
	switch field {
	case FieldTeamName:
		return t.TeamName
	case FieldCategories:
		return t.Categories
	case FieldCompetitions:
		return t.Competitions
	case FieldTeamSize:
		return t.TeamSize
	}
	return ""
}

// Clear removes the message for a field name.
func (t *TeamErrors) Clear(field string) {
	switch field {
	case FieldTeamName:
		t.TeamName = ""
	case FieldCategories:
		t.Categories = ""
	case FieldCompetitions:
		t.Competitions = ""
	case FieldTeamSize:
		t.TeamSize = ""
	}
}

// RiderErrors carries the validation messages for one rider.
type RiderErrors struct {
	Name         string `json:"name,omitempty"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Competitions string `json:"competitions,omitempty"`
	Category     string `json:"category,omitempty"`
}

// Empty reports whether no message is set for the rider.
func (r *RiderErrors) Empty() bool {
	return r.Name == "" && r.DateOfBirth == "" && r.Gender == "" &&
		r.Phone == "" && r.Email == "" && r.Competitions == "" && r.Category == ""
}

// Get returns the message for a field name, empty when clean.
func (r *RiderErrors) Get(field string) string {
	switch field {
	case FieldRiderName:
		return r.Name
	case FieldRiderDateOfBirth:
		return r.DateOfBirth
	case FieldRiderGender:
		return r.Gender
	case FieldRiderPhone:
		return r.Phone
	case FieldRiderEmail:
		return r.Email
	case FieldCompetitions:
		return r.Competitions
	case FieldRiderCategory:
		return r.Category
	}
	return ""
}

// Clear removes the message for a field name.
func (r *RiderErrors) Clear(field string) {
	switch field {
	case FieldRiderName:
		r.Name = ""
	case FieldRiderDateOfBirth:
		r.DateOfBirth = ""
	case FieldRiderGender:
		r.Gender = ""
	case FieldRiderPhone:
		r.Phone = ""
	case FieldRiderEmail:
		r.Email = ""
	case FieldCompetitions:
		r.Competitions = ""
	case FieldRiderCategory:
		r.Category = ""
	}
}

// RegistrationErrors is the full error map produced by a submit attempt:
// aggregate messages under Team, per-rider messages keyed by rider id.
type RegistrationErrors struct {
	Team   *TeamErrors             `json:"team,omitempty"`
	Riders map[string]*RiderErrors `json:"riders,omitempty"`
}

// Empty reports whether the map holds no messages at all.
func (e *RegistrationErrors) Empty() bool {
	if e.Team != nil && !e.Team.Empty() {
		return false
	}
	for _, re := range e.Riders {
		if re != nil && !re.Empty() {
			return false
		}
	}
	return true
}

// ----------------------- first-error pointer -----------------------

// ErrorRef points at the first failing field of a submit attempt so the
// caller can focus it. Scope is the sentinel "team" for aggregate fields,
// otherwise a rider id.
type ErrorRef struct {
	Scope string `json:"scope"`
	Field string `json:"field"`
}

// TeamScope is the sentinel scope for aggregate errors.
const TeamScope = "team"

// ValidationResult is what a submit-time validation run returns.
type ValidationResult struct {
	Errors RegistrationErrors `json:"errors"`
	Valid  bool               `json:"valid"`
	First  *ErrorRef          `json:"first,omitempty"`
}
