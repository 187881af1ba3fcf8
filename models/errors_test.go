// Package models file: models/errors_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeamErrors_GetClearEmpty(t *testing.T) {
	te := &TeamErrors{}
	assert.True(t, te.Empty())

	te.TeamName = "Team name is required"
	te.Categories = "Select at least one category"
	assert.False(t, te.Empty())
	assert.Equal(t, "Team name is required", te.Get(FieldTeamName))
	assert.Equal(t, "", te.Get("noSuchField"))

	te.Clear(FieldTeamName)
	assert.Equal(t, "", te.Get(FieldTeamName))
	assert.False(t, te.Empty())

	te.Clear(FieldCategories)
	assert.True(t, te.Empty())
}

func TestRiderErrors_GetClearEmpty(t *testing.T) {
	re := &RiderErrors{}
	assert.True(t, re.Empty())

	re.Email = "Enter a valid email address"
	re.Competitions = "Select at least one competition"
	assert.Equal(t, "Enter a valid email address", re.Get(FieldRiderEmail))
	assert.Equal(t, "Select at least one competition", re.Get(FieldCompetitions))

	re.Clear(FieldRiderEmail)
	re.Clear(FieldCompetitions)
	assert.True(t, re.Empty())
}

func TestRegistrationErrors_Empty(t *testing.T) {
	var errs RegistrationErrors
	assert.True(t, errs.Empty())

	errs.Team = &TeamErrors{}
	errs.Riders = map[string]*RiderErrors{"r1": {}}
	assert.True(t, errs.Empty())

	errs.Riders["r1"].Name = "Rider name is required"
	assert.False(t, errs.Empty())
}

func TestRegistrationState_Helpers(t *testing.T) {
	state := &RegistrationState{
		Riders:              []*RiderEntry{{ID: "r1"}, {ID: "r2"}},
		SelectedCategoryIDs: []string{"cat-a"},
	}

	assert.Equal(t, "r2", state.Rider("r2").ID)
	assert.Nil(t, state.Rider("r9"))
	assert.True(t, state.HasCategory("cat-a"))
	assert.False(t, state.HasCategory("cat-b"))
}

func TestRegistrationState_CloneIsDeep(t *testing.T) {
	state := &RegistrationState{
		Mode:     ModeTeam,
		TeamName: "Originals",
		Riders: []*RiderEntry{
			{
				ID:                     "r1",
				Name:                   "A",
				SelectedCompetitionIDs: []string{"comp-1"},
				ProfileImage:           &ProfileImage{Filename: "a.jpg", Data: []byte("x")},
			},
		},
		SelectedCategoryIDs: []string{"cat-a"},
		TeamCompetitionIDs:  []string{"comp-1"},
	}

	clone := state.Clone()
	clone.TeamName = "Copies"
	clone.Riders[0].Name = "B"
	clone.Riders[0].SelectedCompetitionIDs[0] = "comp-9"
	clone.Riders[0].ProfileImage.Filename = "b.jpg"
	clone.SelectedCategoryIDs[0] = "cat-z"
	clone.TeamCompetitionIDs = append(clone.TeamCompetitionIDs, "comp-2")

	assert.Equal(t, "Originals", state.TeamName)
	assert.Equal(t, "A", state.Riders[0].Name)
	assert.Equal(t, []string{"comp-1"}, state.Riders[0].SelectedCompetitionIDs)
	assert.Equal(t, "a.jpg", state.Riders[0].ProfileImage.Filename)
	assert.Equal(t, []string{"cat-a"}, state.SelectedCategoryIDs)
	assert.Equal(t, []string{"comp-1"}, state.TeamCompetitionIDs)
}
