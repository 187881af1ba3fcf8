// Package services: services/registration_service.go
package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"equestrian-entries/logger"
	"equestrian-entries/models"
)

// dateOfBirthLayout is the wire format for rider birth dates.
const dateOfBirthLayout = "2006-01-02"

// Rider-count limits enforced by the state manager. The team floor of 2 is
// the platform rule for removing riders; the per-category minimum is checked
// separately at submit time.
const (
	teamRiderCap   = 4
	teamRiderFloor = 2
)

// nowFunc is injectable so tests can pin "today" for age derivation.
var nowFunc = time.Now

var (
	ErrSessionNotFound  = errors.New("registration session not found")
	ErrRiderNotFound    = errors.New("rider not found in this session")
	ErrTeamFull         = errors.New("a team may have at most 4 riders")
	ErrTeamAtFloor      = errors.New("a team must keep at least 2 riders")
	ErrSingleRiderMode  = errors.New("individual registrations have exactly one rider")
	ErrUnknownField     = errors.New("unknown field")
	ErrUnknownMode      = errors.New("unknown registration mode")
	ErrBadDateOfBirth   = errors.New("date of birth must be formatted YYYY-MM-DD")
	ErrUnknownCategory  = errors.New("category does not exist for this event")
	ErrCategoryModeSkew = errors.New("category is not open to the current registration mode")
	ErrUnknownCompetit  = errors.New("competition does not exist for this event")
)

// RegistrationServiceInterface is the contract the controllers program
// against; MockRegistrationService implements it for handler tests.
type RegistrationServiceInterface interface {
	StartSession(event *models.EventDefinition, mode models.Mode) (string, *models.RegistrationState, error)
	GetSession(sessionID string) (*models.RegistrationState, *models.EventDefinition, error)
	AddRider(sessionID string) (*models.RiderEntry, error)
	RemoveRider(sessionID, riderID string) error
	UpdateRider(sessionID, riderID, field, value string) error
	UpdateTeamField(sessionID, field, value string) error
	AttachProfileImage(sessionID, riderID, filename string, data []byte) error
	ToggleCategory(sessionID, categoryID string) error
	ToggleCompetition(sessionID, competitionID, riderID string) error
	SwitchMode(sessionID string, mode models.Mode) error
	OfferedCategories(sessionID, subEventID string) ([]models.Category, error)
	ValidateSession(sessionID string) (models.ValidationResult, error)
	EndSession(sessionID string) bool
	ActiveSessions() int
}

// formSession is everything held for one open registration form: the mutable
// state, the event metadata it was opened against and the error map from the
// last submit attempt (cleared incrementally as fields are edited).
type formSession struct {
	state  *models.RegistrationState
	event  *models.EventDefinition
	errors models.RegistrationErrors
	opened time.Time
}

// RegistrationService keeps all open form sessions in memory, keyed by a
// UUID session id. All operations run under one mutex; handlers therefore
// always observe a fully consistent state.
type RegistrationService struct {
	mu       sync.Mutex
	sessions map[string]*formSession

	// FeeNotifier, when set, is invoked after every mutation that can change
	// the fee so live subscribers see the recomputed totals.
	FeeNotifier func(sessionID string, total int, riderFees map[string]int)
}

// NewRegistrationService creates an empty session store.
func NewRegistrationService() *RegistrationService {
	return &RegistrationService{sessions: make(map[string]*formSession)}
}

// StartSession opens a fresh form session for the given event and mode,
// seeded with one blank rider (individual) or two (team).
func (s *RegistrationService) StartSession(event *models.EventDefinition, mode models.Mode) (string, *models.RegistrationState, error) {
	if !mode.Valid() {
		return "", nil, ErrUnknownMode
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID := uuid.NewString()
	state := seedState(event.ID, mode)
	s.sessions[sessionID] = &formSession{
		state:  state,
		event:  event,
		opened: nowFunc(),
	}
	logger.Info.Printf("StartSession: opened session %s for event %s (mode=%s)", sessionID, event.ID, mode)
	return sessionID, state, nil
}

// seedState builds the default RegistrationState for a mode.
func seedState(eventID string, mode models.Mode) *models.RegistrationState {
	riders := []*models.RiderEntry{blankRider()}
	if mode == models.ModeTeam {
		riders = append(riders, blankRider())
	}
	return &models.RegistrationState{
		EventID:             eventID,
		Mode:                mode,
		Riders:              riders,
		SelectedCategoryIDs: []string{},
		TeamCompetitionIDs:  []string{},
	}
}

func blankRider() *models.RiderEntry {
	return &models.RiderEntry{
		ID:                     uuid.NewString(),
		SelectedCompetitionIDs: []string{},
	}
}

// GetSession returns a detached copy of the session state plus the event
// definition. The copy is built under the lock so callers can read and
// serialize it without racing concurrent mutations; the event definition is
// immutable and shared. All writes go through service methods.
func (s *RegistrationService) GetSession(sessionID string) (*models.RegistrationState, *models.EventDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil, ErrSessionNotFound
	}
	return sess.state.Clone(), sess.event, nil
}

// AddRider appends a blank rider. Team sessions are capped at 4 riders;
// individual sessions always hold exactly one. The returned rider is a
// detached copy.
func (s *RegistrationService) AddRider(sessionID string) (*models.RiderEntry, error) {
	var notify func()
	defer fire(&notify)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.state.Mode == models.ModeIndividual {
		return nil, ErrSingleRiderMode
	}
	if len(sess.state.Riders) >= teamRiderCap {
		logger.Warn.Printf("AddRider: session %s already at the %d-rider cap", sessionID, teamRiderCap)
		return nil, ErrTeamFull
	}
	rider := blankRider()
	sess.state.Riders = append(sess.state.Riders, rider)
	notify = s.feeUpdateLocked(sessionID, sess)
	logger.Info.Printf("AddRider: session %s now has %d riders", sessionID, len(sess.state.Riders))
	return rider.Clone(), nil
}

// RemoveRider drops a rider and any validation errors keyed to it. Team
// sessions keep a floor of 2 riders; the floor is only checked once the rider
// is known to exist, so an unknown rider reports not-found at any size.
func (s *RegistrationService) RemoveRider(sessionID, riderID string) error {
	var notify func()
	defer fire(&notify)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if sess.state.Mode == models.ModeIndividual {
		return ErrSingleRiderMode
	}
	idx := -1
	for i, r := range sess.state.Riders {
		if r.ID == riderID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrRiderNotFound
	}
	if len(sess.state.Riders) <= teamRiderFloor {
		return ErrTeamAtFloor
	}
	sess.state.Riders = append(sess.state.Riders[:idx], sess.state.Riders[idx+1:]...)
	delete(sess.errors.Riders, riderID)
	notify = s.feeUpdateLocked(sessionID, sess)
	logger.Info.Printf("RemoveRider: removed rider %s from session %s", riderID, sessionID)
	return nil
}

// UpdateRider sets one scalar field on a rider and clears that field's error.
// Changing dateOfBirth or gender re-derives the rider's age and category in
// the same mutation.
func (s *RegistrationService) UpdateRider(sessionID, riderID, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	rider := sess.state.Rider(riderID)
	if rider == nil {
		return ErrRiderNotFound
	}

	switch field {
	case models.FieldRiderName:
		rider.Name = value
	case "externalId":
		rider.ExternalID = value
	case models.FieldRiderPhone:
		rider.Phone = value
	case models.FieldRiderEmail:
		rider.Email = value
	case models.FieldRiderDateOfBirth:
		dob, err := time.Parse(dateOfBirthLayout, value)
		if err != nil {
			return ErrBadDateOfBirth
		}
		rider.DateOfBirth = dob
		s.rederiveLocked(rider, sess)
	case models.FieldRiderGender:
		rider.Gender = value
		s.rederiveLocked(rider, sess)
	default:
		return ErrUnknownField
	}

	s.clearRiderErrorLocked(sess, riderID, field)
	return nil
}

// rederiveLocked recomputes DerivedAge and DerivedCategoryID from the current
// dateOfBirth/gender. A changed derivation also clears a stale category error.
func (s *RegistrationService) rederiveLocked(rider *models.RiderEntry, sess *formSession) {
	if !rider.HasDateOfBirth() {
		rider.DerivedAge = 0
		rider.DerivedCategoryID = ""
		return
	}
	rider.DerivedAge = AgeInYears(rider.DateOfBirth, nowFunc())
	rider.DerivedCategoryID = ResolveCategory(rider.DateOfBirth, rider.Gender, nowFunc(), sess.event.SubEvents)
	if rider.DerivedCategoryID != "" {
		s.clearRiderErrorLocked(sess, rider.ID, models.FieldRiderCategory)
	}
}

// UpdateTeamField sets a team-level field (teamName, parentName, coachName)
// and clears its error.
func (s *RegistrationService) UpdateTeamField(sessionID, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	switch field {
	case models.FieldTeamName:
		sess.state.TeamName = value
	case "parentName":
		sess.state.ParentName = value
	case "coachName":
		sess.state.CoachName = value
	default:
		return ErrUnknownField
	}
	if sess.errors.Team != nil {
		sess.errors.Team.Clear(field)
	}
	return nil
}

// AttachProfileImage stores an uploaded photo on the rider until submission.
func (s *RegistrationService) AttachProfileImage(sessionID, riderID, filename string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	rider := sess.state.Rider(riderID)
	if rider == nil {
		return ErrRiderNotFound
	}
	rider.ProfileImage = &models.ProfileImage{Filename: filename, Data: data}
	return nil
}

// ToggleCategory flips membership of categoryID in the selected set. Only
// categories open to the current mode may be toggled. Clears the aggregate
// categories error.
func (s *RegistrationService) ToggleCategory(sessionID, categoryID string) error {
	var notify func()
	defer fire(&notify)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	cat := sess.event.FindCategory(categoryID)
	if cat == nil {
		return ErrUnknownCategory
	}
	if !cat.EntryType.AllowsMode(sess.state.Mode) {
		return ErrCategoryModeSkew
	}
	sess.state.SelectedCategoryIDs = toggleMembership(sess.state.SelectedCategoryIDs, categoryID)
	if sess.errors.Team != nil {
		sess.errors.Team.Clear(models.FieldCategories)
	}
	notify = s.feeUpdateLocked(sessionID, sess)
	return nil
}

// ToggleCompetition flips membership of competitionID. In team mode the
// toggle applies to the shared team set and riderID is ignored; in individual
// mode it applies to the named rider. Clears the matching competitions error.
func (s *RegistrationService) ToggleCompetition(sessionID, competitionID, riderID string) error {
	var notify func()
	defer fire(&notify)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if sess.event.FindCompetition(competitionID) == nil {
		return ErrUnknownCompetit
	}

	if sess.state.Mode == models.ModeTeam {
		sess.state.TeamCompetitionIDs = toggleMembership(sess.state.TeamCompetitionIDs, competitionID)
		if sess.errors.Team != nil {
			sess.errors.Team.Clear(models.FieldCompetitions)
		}
	} else {
		rider := sess.state.Rider(riderID)
		if rider == nil {
			return ErrRiderNotFound
		}
		rider.SelectedCompetitionIDs = toggleMembership(rider.SelectedCompetitionIDs, competitionID)
		s.clearRiderErrorLocked(sess, riderID, models.FieldCompetitions)
	}
	notify = s.feeUpdateLocked(sessionID, sess)
	return nil
}

// SwitchMode resets the session to the target mode's seed state. The reset is
// destructive: riders, team name and every selection of the abandoned mode
// are discarded, matching the platform's form behaviour.
func (s *RegistrationService) SwitchMode(sessionID string, mode models.Mode) error {
	var notify func()
	defer fire(&notify)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if !mode.Valid() {
		return ErrUnknownMode
	}
	sess.state = seedState(sess.state.EventID, mode)
	sess.errors = models.RegistrationErrors{}
	notify = s.feeUpdateLocked(sessionID, sess)
	logger.Info.Printf("SwitchMode: session %s reset to mode=%s", sessionID, mode)
	return nil
}

// OfferedCategories returns the categories of a sub-event whose entry type is
// compatible with the session's current mode. An empty subEventID means all
// sub-events.
func (s *RegistrationService) OfferedCategories(sessionID, subEventID string) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	var offered []models.Category
	for _, se := range sess.event.SubEvents {
		if subEventID != "" && se.ID != subEventID {
			continue
		}
		for _, cat := range se.Categories {
			if cat.EntryType.AllowsMode(sess.state.Mode) {
				offered = append(offered, cat)
			}
		}
	}
	return offered, nil
}

// ValidateSession runs the full submit-time validation and stores the error
// map on the session so subsequent edits clear entries incrementally.
func (s *RegistrationService) ValidateSession(sessionID string) (models.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return models.ValidationResult{}, ErrSessionNotFound
	}
	result := Validate(sess.state, sess.event)
	sess.errors = result.Errors
	return result, nil
}

// EndSession discards the session. Returns false when it was already gone.
func (s *RegistrationService) EndSession(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		logger.Warn.Printf("EndSession: session %s not found", sessionID)
		return false
	}
	delete(s.sessions, sessionID)
	logger.Info.Printf("EndSession: closed session %s", sessionID)
	return true
}

// ActiveSessions returns the number of open form sessions.
func (s *RegistrationService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ----------------------- internal helpers -----------------------

// toggleMembership adds id when absent, removes it when present.
func toggleMembership(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return append(ids, id)
}

func (s *RegistrationService) clearRiderErrorLocked(sess *formSession, riderID, field string) {
	if re, ok := sess.errors.Riders[riderID]; ok && re != nil {
		re.Clear(field)
	}
}

// feeUpdateLocked snapshots the recomputed totals under the lock and returns
// the notifier call to make with them. The call must happen after the mutex
// is released: the notifier feeds the websocket broadcast channel, and a
// stalled subscriber must not wedge the session store.
func (s *RegistrationService) feeUpdateLocked(sessionID string, sess *formSession) func() {
	if s.FeeNotifier == nil {
		return nil
	}
	total := TotalFee(sess.state)
	fees := FeeBreakdown(sess.state)
	return func() { s.FeeNotifier(sessionID, total, fees) }
}

// fire runs a pending fee notification. Deferred before the mutex defer, so
// it executes once the lock is released.
func fire(notify *func()) {
	if *notify != nil {
		(*notify)()
	}
}
