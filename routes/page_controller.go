package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dkinclub/butterfly-survey/app"
	"github.com/dkinclub/butterfly-survey/httpx"
	"github.com/dkinclub/butterfly-survey/schema"
	"github.com/dkinclub/butterfly-survey/store"
)

// Home renders the survey form, or the maintenance page when the flag
// is set.
func Home(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app.MaintenanceMode {
			app.Views.Render(w, http.StatusServiceUnavailable, "error.html", map[string]any{
				"Title":   "Maintenance Mode",
				"Message": "The application is currently under maintenance. Please try again later.",
			})
			return
		}

		app.Views.Render(w, http.StatusOK, "index.html", map[string]any{
			"Title":       app.AppName,
			"Description": app.AppDescription,
			"Version":     app.AppVersion,
			"Ratings":     []int{1, 2, 3, 4, 5},
		})
	}
}

// FormErrors renders the results view in its error mode, one line per
// field failure.
func FormErrors(app app.App) schema.ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, errs schema.Errors) {
		app.Views.Render(w, http.StatusOK, "results.html", map[string]any{
			"Title":   "Incorrect Input",
			"IsError": true,
			"Errors":  errs.Messages(),
		})
	}
}

// SubmitSurvey stores a validated form submission and renders the
// results view with fresh running averages.
func SubmitSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := schema.Validated[schema.FormSubmission](r)

		resp, err := app.Responses.Insert(r.Context(), sub)
		if err != nil {
			renderStorageError(app, w, "db.insert_response", err)
			return
		}

		avg, err := app.Responses.Averages(r.Context())
		if err != nil {
			renderStorageError(app, w, "db.response_averages", err)
			return
		}

		app.Views.Render(w, http.StatusOK, "results.html", map[string]any{
			"Title":           "Survey Submitted",
			"IsError":         false,
			"FirstName":       resp.FName,
			"Surname":         resp.SName,
			"Email":           resp.Email,
			"ButterflyColour": resp.Colour,
			"Comments":        resp.Comment,
			"Q1":              resp.Q1,
			"Q2":              resp.Q2,
			"Q3":              resp.Q3,
			"SurveyCount":     avg.Count,
			"AvgQ1":           fmt.Sprintf("%.2f", avg.Q1),
			"AvgQ2":           fmt.Sprintf("%.2f", avg.Q2),
			"AvgQ3":           fmt.Sprintf("%.2f", avg.Q3),
			"AvgTotal":        fmt.Sprintf("%.2f", avg.Total()),
		})
	}
}

// ListSurveysPage renders the paginated response list. Unlike the API
// listing this path never rejects its query: out-of-range values are
// clamped and unknown sort fields fall back to defaults.
func ListSurveysPage(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := clampPageQuery(r)

		responses, total, err := app.Responses.Page(r.Context(), req)
		if err != nil {
			renderStorageError(app, w, "db.get_responses", err)
			return
		}

		totalPages := (total + req.Limit - 1) / req.Limit

		app.Views.Render(w, http.StatusOK, "surveys.html", map[string]any{
			"Title":   "Survey List",
			"Surveys": responses,
			"Pagination": map[string]any{
				"CurrentPage":  req.Page,
				"TotalPages":   totalPages,
				"TotalSurveys": total,
				"HasNext":      req.Page < totalPages,
				"HasPrev":      req.Page > 1,
				"Limit":        req.Limit,
			},
			"PrevPage": req.Page - 1,
			"NextPage": req.Page + 1,
			"Sort": map[string]any{
				"SortBy": req.SortBy,
				"Order":  req.Order,
			},
		})
	}
}

func clampPageQuery(r *http.Request) store.PageRequest {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	sortBy := q.Get("sortBy")
	switch sortBy {
	case "date", "firstname", "surname", "email":
	default:
		sortBy = "date"
	}

	order := q.Get("order")
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	return store.PageRequest{Page: page, Limit: limit, SortBy: sortBy, Order: order}
}

// NotFoundPage renders the 404 view for unrouted paths.
func NotFoundPage(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app.Views.Render(w, http.StatusNotFound, "404.html", map[string]any{
			"URL": r.URL.Path,
		})
	}
}

func renderStorageError(app app.App, w http.ResponseWriter, code string, err error) {
	httpx.LogStorageError(code, err)
	app.Views.Render(w, http.StatusInternalServerError, "error.html", map[string]any{
		"Title":   "Database Error",
		"Message": "Something went wrong on the server.",
	})
}
