// Package controllers file: controllers/test_helpers_test.go
package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"equestrian-entries/models"
	"equestrian-entries/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func intPtr(v int) *int { return &v }

// testEventDef builds a small event with one always-matching individual
// category and one bounded team category.
func testEventDef() *models.EventDefinition {
	return &models.EventDefinition{
		ID:   "evt-100",
		Name: "Spring Horse Trials",
		SubEvents: []models.SubEvent{
			{
				ID:   "se-jumping",
				Name: "Show Jumping",
				Categories: []models.Category{
					{ID: "cat-open", Name: "Open", EntryType: models.EntryIndividual},
					{
						ID:          "cat-team",
						Name:        "Team Open",
						EntryType:   models.EntryTeam,
						MinTeamSize: intPtr(2),
						MaxTeamSize: intPtr(4),
					},
				},
			},
		},
		Competitions: []models.Competition{
			{ID: "comp-1", Name: "Round One"},
			{ID: "comp-2", Name: "Round Two"},
		},
	}
}

// testEnv bundles the router with its backing services so tests can both hit
// endpoints and reach behind them.
type testEnv struct {
	router        *gin.Engine
	events        *services.MockEventService
	registrations *services.RegistrationService
	submissions   *services.MockSubmissionService
	archive       *services.ArchiveService
}

// newTestEnv wires the registration routes the way main does, with mocked
// upstream boundaries and a real in-memory state manager.
func newTestEnv() *testEnv {
	env := &testEnv{
		events:        new(services.MockEventService),
		registrations: services.NewRegistrationService(),
		submissions:   new(services.MockSubmissionService),
		archive:       services.NewArchiveService(),
	}

	rc := NewRegistrationController(env.events, env.registrations, env.submissions, env.archive)

	router := gin.New()
	router.POST("/events/:eventID/registrations", rc.OpenRegistration)
	reg := router.Group("/registrations")
	{
		reg.GET("/:sessionID", rc.GetRegistration)
		reg.DELETE("/:sessionID", rc.CloseRegistration)
		reg.POST("/:sessionID/riders", rc.AddRider)
		reg.PATCH("/:sessionID/riders/:riderID", rc.UpdateRider)
		reg.DELETE("/:sessionID/riders/:riderID", rc.RemoveRider)
		reg.POST("/:sessionID/riders/:riderID/photo", rc.UploadRiderPhoto)
		reg.PATCH("/:sessionID/team", rc.UpdateTeam)
		reg.POST("/:sessionID/categories/:categoryID", rc.ToggleCategory)
		reg.POST("/:sessionID/competitions/:competitionID", rc.ToggleCompetition)
		reg.PUT("/:sessionID/mode", rc.SwitchMode)
		reg.GET("/:sessionID/categories", rc.OfferedCategories)
		reg.GET("/:sessionID/fee", rc.GetFee)
		reg.POST("/:sessionID/submit", rc.SubmitRegistration)
	}
	env.router = router
	return env
}

// doJSON performs a request with an optional JSON body and returns the recorder.
func (env *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// openSession opens a session over HTTP and returns its id.
func (env *testEnv) openSession(t *testing.T, mode models.Mode) string {
	t.Helper()
	env.events.On("FetchEvent", mock.Anything, "evt-100").Return(testEventDef(), nil).Once()
	rec := env.doJSON(t, http.MethodPost, "/events/evt-100/registrations", gin.H{"mode": mode})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	return data["sessionId"].(string)
}
