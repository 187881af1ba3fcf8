// file: services/submission_service_test.go
package services

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equestrian-entries/models"
)

func submittableTeamState() *models.RegistrationState {
	r1 := filledRider("r1")
	r2 := filledRider("r2")
	r2.ProfileImage = &models.ProfileImage{Filename: "r2.jpg", Data: []byte("jpegbytes")}
	return &models.RegistrationState{
		EventID:             "evt-100",
		Mode:                models.ModeTeam,
		TeamName:            "The Galloping Four",
		Riders:              []*models.RiderEntry{r1, r2},
		SelectedCategoryIDs: []string{"cat-team-open"},
		TeamCompetitionIDs:  []string{"comp-1", "comp-2"},
		CoachName:           "C. Coach",
	}
}

// parseSubmission reads a built payload back with the stdlib multipart reader.
func parseSubmission(t *testing.T, body io.Reader, contentType string) *multipart.Form {
	t.Helper()
	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	reader := multipart.NewReader(body, params["boundary"])
	form, err := reader.ReadForm(10 << 20)
	require.NoError(t, err)
	return form
}

func TestBuildSubmission_TeamPayload(t *testing.T) {
	state := submittableTeamState()

	body, contentType, err := BuildSubmission(state)
	require.NoError(t, err)

	form := parseSubmission(t, body, contentType)
	defer func() { _ = form.RemoveAll() }()

	assert.Equal(t, []string{"team"}, form.Value["mode"])
	assert.Equal(t, []string{"The Galloping Four"}, form.Value["team_name"])
	assert.Equal(t, []string{"C. Coach"}, form.Value["coach_name"])
	assert.Equal(t, []string{"cat-team-open"}, form.Value["categories[0]"])
	assert.Equal(t, []string{"comp-1"}, form.Value["competitions[0]"])
	assert.Equal(t, []string{"comp-2"}, form.Value["competitions[1]"])

	assert.Equal(t, []string{"A. Rider"}, form.Value["riders[0][name]"])
	assert.Equal(t, []string{"2013-03-01"}, form.Value["riders[0][date_of_birth]"])
	assert.Equal(t, []string{"cat-junior"}, form.Value["riders[1][category_id]"])

	// the second rider's photo rides along as a file part
	files := form.File["riders[1][profile_image]"]
	require.Len(t, files, 1)
	assert.Equal(t, "r2.jpg", files[0].Filename)

	// team mode carries no per-rider competition keys
	assert.NotContains(t, form.Value, "riders[0][competitions][0]")
}

func TestBuildSubmission_IndividualPayload(t *testing.T) {
	rider := filledRider("r1")
	rider.SelectedCompetitionIDs = []string{"comp-1", "comp-2"}
	state := &models.RegistrationState{
		EventID:             "evt-100",
		Mode:                models.ModeIndividual,
		Riders:              []*models.RiderEntry{rider},
		SelectedCategoryIDs: []string{"cat-junior"},
		ParentName:          "P. Parent",
	}

	body, contentType, err := BuildSubmission(state)
	require.NoError(t, err)

	form := parseSubmission(t, body, contentType)
	defer func() { _ = form.RemoveAll() }()

	assert.Equal(t, []string{"individual"}, form.Value["mode"])
	assert.Equal(t, []string{"P. Parent"}, form.Value["parent_name"])
	assert.Equal(t, []string{"comp-1"}, form.Value["riders[0][competitions][0]"])
	assert.Equal(t, []string{"comp-2"}, form.Value["riders[0][competitions][1]"])
	assert.NotContains(t, form.Value, "team_name")
	assert.NotContains(t, form.Value, "competitions[0]")
}

// partNames reads the payload part by part and returns the form names in
// wire order.
func partNames(t *testing.T, body io.Reader, contentType string) []string {
	t.Helper()
	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	reader := multipart.NewReader(body, params["boundary"])

	var names []string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, part.FormName())
	}
	return names
}

// The payload layout is fixed: identical state serializes with identical part
// order on every build.
func TestBuildSubmission_PartOrderIsStable(t *testing.T) {
	state := submittableTeamState()

	body, contentType, err := BuildSubmission(state)
	require.NoError(t, err)
	first := partNames(t, body, contentType)

	expected := []string{
		"mode", "team_name", "coach_name",
		"categories[0]", "competitions[0]", "competitions[1]",
		"riders[0][id]", "riders[0][name]", "riders[0][date_of_birth]",
		"riders[0][age]", "riders[0][gender]", "riders[0][category_id]",
		"riders[0][phone]", "riders[0][email]",
		"riders[1][id]", "riders[1][name]", "riders[1][date_of_birth]",
		"riders[1][age]", "riders[1][gender]", "riders[1][category_id]",
		"riders[1][phone]", "riders[1][email]", "riders[1][profile_image]",
	}
	assert.Equal(t, expected, first)

	body, contentType, err = BuildSubmission(submittableTeamState())
	require.NoError(t, err)
	assert.Equal(t, first, partNames(t, body, contentType))
}

func TestSubmit_Accepted(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Equal(t, "team", r.FormValue("mode"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "data": {"reference": "REG-42"}}`))
	}))
	defer upstream.Close()

	svc := NewSubmissionService(upstream.URL)
	state := submittableTeamState()

	receipt, err := svc.Submit(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "/event-participants/register/evt-100", gotPath)
	assert.Equal(t, "REG-42", receipt.Reference)
	assert.Equal(t, TotalFee(state), receipt.Total)
	assert.WithinDuration(t, time.Now(), receipt.SubmittedAt, 5*time.Second)
}

func TestSubmit_GeneratesReferenceWhenUpstreamOmitsOne(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer upstream.Close()

	svc := NewSubmissionService(upstream.URL)
	receipt, err := svc.Submit(context.Background(), submittableTeamState())
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.Reference)
}

// Rejections and transport failures collapse into one opaque error.
func TestSubmit_RejectedIsOpaque(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "message": "duplicate registration"}`))
	}))
	defer upstream.Close()

	svc := NewSubmissionService(upstream.URL)
	_, err := svc.Submit(context.Background(), submittableTeamState())
	assert.ErrorIs(t, err, ErrSubmissionRejected)
}

func TestSubmit_UpstreamErrorStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	svc := NewSubmissionService(upstream.URL)
	_, err := svc.Submit(context.Background(), submittableTeamState())
	assert.ErrorIs(t, err, ErrSubmissionRejected)
}
