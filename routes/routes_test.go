package routes_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkinclub/butterfly-survey/app"
	"github.com/dkinclub/butterfly-survey/config"
	"github.com/dkinclub/butterfly-survey/database"
	"github.com/dkinclub/butterfly-survey/routes"
	"github.com/dkinclub/butterfly-survey/store"
	"github.com/dkinclub/butterfly-survey/views"
)

func newTestApp(t *testing.T) app.App {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	v, err := views.New()
	require.NoError(t, err)

	return app.App{
		Surveys:   store.NewSurveyStore(db),
		Responses: store.NewResponseStore(db),
		Views:     v,
		Config: config.Config{
			Addr:            "localhost:0",
			AllowedOrigins:  []string{"http://localhost:3000"},
			RateLimitWindow: time.Minute,
			RateLimitMax:    1000,
			SubmitLimitMax:  1000,
			AppName:         "dKin Butterfly Club",
			AppVersion:      "1.0.0",
			AppDescription:  "test",
		},
	}
}

func newTestHandler(t *testing.T) http.Handler {
	return routes.Wire(newTestApp(t))
}

func validFormBody() url.Values {
	return url.Values{
		"firstname":       {"John"},
		"surname":         {"Doe"},
		"email":           {"john.doe@deakin.edu.au"},
		"q1radio":         {"5"},
		"q2radio":         {"4"},
		"q3radio":         {"3"},
		"butterflyColour": {"blue"},
		"comments":        {"nice"},
	}
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func doJSON(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader strings.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = *strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, &reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func validCreatePayload(email string) map[string]any {
	return map[string]any{
		"firstname": "John",
		"surname":   "Doe",
		"email":     email,
		"address":   "1 Butterfly Lane",
		"suburb":    "Geelong",
		"postcode":  "3216",
		"phone":     "0312345678",
		"q1radio":   "5",
		"q2radio":   "4",
		"q3radio":   "3",
		"comments":  "nice",
	}
}

func TestHomeRendersForm(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dKin Butterfly Club")
	assert.Contains(t, w.Body.String(), `name="butterflyColour"`)
}

func TestMaintenanceMode(t *testing.T) {
	a := newTestApp(t)
	a.MaintenanceMode = true
	h := routes.Wire(a)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Maintenance Mode")
}

func TestSubmitSurveySuccess(t *testing.T) {
	h := newTestHandler(t)

	w := postForm(h, "/submitsurvey", validFormBody())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Survey Submitted")
	assert.Contains(t, w.Body.String(), "Thank you, John Doe!")
	// the single 5/4/3 response is its own running average
	assert.Contains(t, w.Body.String(), "5.00")
	assert.Contains(t, w.Body.String(), "4.00")
}

func TestSubmitSurveyWrongDomainRendersError(t *testing.T) {
	h := newTestHandler(t)

	form := validFormBody()
	form.Set("email", "john.doe@gmail.com")

	w := postForm(h, "/submitsurvey", form)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect Input")
	assert.Contains(t, w.Body.String(), "Error in field &#39;EMAIL&#39;")
}

func TestSubmitSurveyBadRatingNamesQuestion(t *testing.T) {
	h := newTestHandler(t)

	form := validFormBody()
	form.Set("q1radio", "6")

	w := postForm(h, "/submitsurvey", form)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SURVEY QUESTION #1")
}

func TestSubmitSurveyRejectsUnknownField(t *testing.T) {
	h := newTestHandler(t)

	form := validFormBody()
	form.Set("admin", "true")

	w := postForm(h, "/submitsurvey", form)
	assert.Contains(t, w.Body.String(), "Incorrect Input")
}

func TestPageListClampsInsteadOfRejecting(t *testing.T) {
	h := newTestHandler(t)
	postForm(h, "/submitsurvey", validFormBody())

	// page=0, oversized limit and a bogus sort all fall back silently
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/surveys?page=0&limit=9999&sortBy=passwd&order=up", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Survey List")
	assert.Contains(t, w.Body.String(), "Page 1 of")
}

func TestAPIListRejectsWhatThePageClamps(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(h, http.MethodGet, "/api/surveys?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(h, http.MethodGet, "/api/surveys?sortBy=passwd", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Invalid query parameters", body["error"])
}

func TestAPIList(t *testing.T) {
	h := newTestHandler(t)

	for i := 0; i < 15; i++ {
		w := doJSON(h, http.MethodPost, "/api/surveys",
			validCreatePayload(fmt.Sprintf("john%d@deakin.edu.au", i)))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(h, http.MethodGet, "/api/surveys?page=2&limit=10&sortBy=id&order=asc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 5)

	pg := body["pagination"].(map[string]any)
	assert.EqualValues(t, 2, pg["currentPage"])
	assert.EqualValues(t, 2, pg["totalPages"])
	assert.EqualValues(t, 15, pg["totalRecords"])
	assert.EqualValues(t, 10, pg["pageSize"])
	assert.Equal(t, false, pg["hasNextPage"])
	assert.Equal(t, true, pg["hasPrevPage"])
}

func TestAPICreate(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(h, http.MethodPost, "/api/surveys", validCreatePayload("john.doe@deakin.edu.au"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["id"])
	assert.Equal(t, "5", data["q1radio"])
	assert.NotEmpty(t, data["created_at"])
}

func TestAPICreateDuplicateEmail(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(h, http.MethodPost, "/api/surveys", validCreatePayload("john.doe@deakin.edu.au"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(h, http.MethodPost, "/api/surveys", validCreatePayload("john.doe@deakin.edu.au"))
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Duplicate survey", body["error"])
}

func TestAPICreateValidation(t *testing.T) {
	h := newTestHandler(t)

	payload := validCreatePayload("john.doe@gmail.com")
	payload["q1radio"] = "6"

	w := doJSON(h, http.MethodPost, "/api/surveys", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Validation failed", body["error"])
	details := body["details"].([]any)
	assert.Len(t, details, 2)
}

func TestAPIGet(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(h, http.MethodPost, "/api/surveys", validCreatePayload("john.doe@deakin.edu.au"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(h, http.MethodGet, "/api/surveys/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "john.doe@deakin.edu.au", body["data"].(map[string]any)["email"])

	w = doJSON(h, http.MethodGet, "/api/surveys/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(h, http.MethodGet, "/api/surveys/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIUpdate(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(h, http.MethodPost, "/api/surveys", validCreatePayload("john.doe@deakin.edu.au"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(h, http.MethodPut, "/api/surveys/1", map[string]any{"suburb": "Melbourne"})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Melbourne", data["suburb"])
	assert.Equal(t, "John", data["firstname"])

	// no fields at all
	w = doJSON(h, http.MethodPut, "/api/surveys/1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(h, http.MethodPut, "/api/surveys/999", map[string]any{"suburb": "Melbourne"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIUpdateDuplicateEmail(t *testing.T) {
	h := newTestHandler(t)

	require.Equal(t, http.StatusCreated,
		doJSON(h, http.MethodPost, "/api/surveys", validCreatePayload("a@deakin.edu.au")).Code)
	require.Equal(t, http.StatusCreated,
		doJSON(h, http.MethodPost, "/api/surveys", validCreatePayload("b@deakin.edu.au")).Code)

	w := doJSON(h, http.MethodPut, "/api/surveys/2", map[string]any{"email": "a@deakin.edu.au"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAPIDelete(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(h, http.MethodPost, "/api/surveys", validCreatePayload("john.doe@deakin.edu.au"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(h, http.MethodDelete, "/api/surveys/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	w = doJSON(h, http.MethodDelete, "/api/surveys/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIStats(t *testing.T) {
	h := newTestHandler(t)

	require.Equal(t, http.StatusCreated,
		doJSON(h, http.MethodPost, "/api/surveys", validCreatePayload("a@deakin.edu.au")).Code)

	w := doJSON(h, http.MethodGet, "/api/surveys/stats/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	data := body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["totalSurveys"])
	assert.EqualValues(t, 1, data["recentSurveys"])
	ratings := data["averageRatings"].(map[string]any)
	assert.EqualValues(t, 5, ratings["question1"])
}

func TestSecurityHeaders(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestNotFoundPage(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Oops! Page not found.")
}
