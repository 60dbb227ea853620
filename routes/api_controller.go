package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/dkinclub/butterfly-survey/app"
	"github.com/dkinclub/butterfly-survey/httpx"
	"github.com/dkinclub/butterfly-survey/schema"
	"github.com/dkinclub/butterfly-survey/store"
)

func apiError(msg string) schema.ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, errs schema.Errors) {
		httpx.BadRequest(w, r, msg, errs)
	}
}

type pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalRecords int  `json:"totalRecords"`
	PageSize     int  `json:"pageSize"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

func ListSurveysAPI(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := schema.Validated[schema.ListQuery](r)

		surveys, total, err := app.Surveys.GetPage(r.Context(), store.PageRequest{
			Page:   q.Page,
			Limit:  q.Limit,
			SortBy: q.SortBy,
			Order:  q.Order,
		})
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_surveys", err)
			return
		}

		totalPages := (total + q.Limit - 1) / q.Limit
		render.JSON(w, r, map[string]any{
			"success": true,
			"data":    surveys,
			"pagination": pagination{
				CurrentPage:  q.Page,
				TotalPages:   totalPages,
				TotalRecords: total,
				PageSize:     q.Limit,
				HasNextPage:  q.Page < totalPages,
				HasPrevPage:  q.Page > 1,
			},
		})
	}
}

func GetSurveyAPI(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := schema.Validated[int](r)

		survey, err := app.Surveys.GetByID(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, r, "get_survey", "Survey", id)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.get_survey", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"success": true,
			"data":    survey,
		})
	}
}

func CreateSurveyAPI(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		create := schema.Validated[schema.SurveyCreate](r)

		survey, err := app.Surveys.Create(r.Context(), create)
		if errors.Is(err, store.ErrDuplicateEmail) {
			httpx.Conflict(w, r, "Duplicate survey", "A survey with this email already exists")
			return
		}
		if err != nil {
			httpx.LogInternalError(w, r, "db.insert_survey", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"success": true,
			"message": "Survey created successfully",
			"data":    survey,
		})
	}
}

func UpdateSurveyAPI(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := schema.Validated[int](r)
		update := schema.Validated[schema.SurveyUpdate](r)

		survey, err := app.Surveys.Update(r.Context(), id, update.Fields)
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.LogNotFound(w, r, "update_survey", "Survey", id)
			return
		case errors.Is(err, store.ErrDuplicateEmail):
			httpx.Conflict(w, r, "Duplicate email", "Another survey with this email already exists")
			return
		case err != nil:
			httpx.LogInternalError(w, r, "db.update_survey", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"success": true,
			"message": "Survey updated successfully",
			"data":    survey,
		})
	}
}

func DeleteSurveyAPI(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := schema.Validated[int](r)

		deleted, err := app.Surveys.Delete(r.Context(), id)
		if err != nil {
			httpx.LogInternalError(w, r, "db.delete_survey", err)
			return
		}
		if !deleted {
			httpx.LogNotFound(w, r, "delete_survey", "Survey", id)
			return
		}

		render.JSON(w, r, map[string]any{
			"success": true,
			"message": "Survey deleted successfully",
		})
	}
}

func SurveyStatsAPI(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := app.Surveys.Stats(r.Context())
		if err != nil {
			httpx.LogInternalError(w, r, "db.survey_stats", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"success": true,
			"data":    stats,
		})
	}
}
