// file: services/fee_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"equestrian-entries/models"
)

func individualState(competitions, categories int) *models.RegistrationState {
	rider := &models.RiderEntry{ID: "r1"}
	for i := 0; i < competitions; i++ {
		rider.SelectedCompetitionIDs = append(rider.SelectedCompetitionIDs, "comp")
	}
	state := &models.RegistrationState{
		Mode:   models.ModeIndividual,
		Riders: []*models.RiderEntry{rider},
	}
	for i := 0; i < categories; i++ {
		state.SelectedCategoryIDs = append(state.SelectedCategoryIDs, "cat")
	}
	return state
}

// 1 rider, 1 category, 1 competition = 1000; a second competition doubles it.
func TestTotalFee_IndividualExamples(t *testing.T) {
	state := individualState(1, 1)
	assert.Equal(t, 1000, TotalFee(state))

	state.Riders[0].SelectedCompetitionIDs = append(state.Riders[0].SelectedCompetitionIDs, "comp-2")
	assert.Equal(t, 2000, TotalFee(state))
}

// Adding a competition never decreases the total.
func TestTotalFee_MonotonicInCompetitions(t *testing.T) {
	state := individualState(1, 2)
	before := TotalFee(state)

	state.Riders[0].SelectedCompetitionIDs = append(state.Riders[0].SelectedCompetitionIDs, "comp-extra")
	assert.GreaterOrEqual(t, TotalFee(state), before)
}

// Every team member is charged for the shared team selections, so the total
// scales with team size and removing a rider never increases it.
func TestTotalFee_TeamScalesPerMember(t *testing.T) {
	state := &models.RegistrationState{
		Mode:                models.ModeTeam,
		Riders:              []*models.RiderEntry{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}},
		SelectedCategoryIDs: []string{"cat-team-open"},
		TeamCompetitionIDs:  []string{"comp-1", "comp-2"},
	}
	// 3 riders x 2 competitions x 1 category x 1000
	assert.Equal(t, 6000, TotalFee(state))

	before := TotalFee(state)
	state.Riders = state.Riders[:2]
	assert.LessOrEqual(t, TotalFee(state), before)
	assert.Equal(t, 4000, TotalFee(state))
}

// Without a competition or category selection the fee is zero.
func TestTotalFee_EmptySelections(t *testing.T) {
	assert.Equal(t, 0, TotalFee(individualState(0, 1)))
	assert.Equal(t, 0, TotalFee(individualState(1, 0)))
}

func TestFeeBreakdown_PerRider(t *testing.T) {
	state := &models.RegistrationState{
		Mode:                models.ModeTeam,
		Riders:              []*models.RiderEntry{{ID: "r1"}, {ID: "r2"}},
		SelectedCategoryIDs: []string{"cat-team-open"},
		TeamCompetitionIDs:  []string{"comp-1"},
	}
	fees := FeeBreakdown(state)
	assert.Equal(t, map[string]int{"r1": 1000, "r2": 1000}, fees)
}
