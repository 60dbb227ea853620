package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/dkinclub/butterfly-survey/app"
	"github.com/dkinclub/butterfly-survey/routes/middlewares"
	"github.com/dkinclub/butterfly-survey/schema"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)
	root.Use(middlewares.SecurityHeaders)
	root.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// static images sit outside the rate-limited group
	root.Handle("/images/*", http.StripPrefix("/images", http.FileServer(http.Dir("images"))))

	root.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(app.RateLimitMax, app.RateLimitWindow))

		r.Get("/", Home(app))
		r.Get("/surveys", ListSurveysPage(app))
		r.With(
			httprate.LimitByIP(app.SubmitLimitMax, app.RateLimitWindow),
			schema.Body(schema.ParseFormSubmission, FormErrors(app)),
		).Post("/submitsurvey", SubmitSurvey(app))

		r.Mount("/api/surveys", apiRouter(app))
	})

	root.NotFound(NotFoundPage(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.With(schema.Query(schema.ParseListQuery, apiError("Invalid query parameters"))).
		Get("/", ListSurveysAPI(app))
	api.With(schema.Body(schema.ParseSurveyCreate, apiError("Validation failed"))).
		Post("/", CreateSurveyAPI(app))
	api.With(schema.Params(schema.ParseID, apiError("Invalid parameters"))).
		Get("/{id}", GetSurveyAPI(app))
	api.With(
		schema.Params(schema.ParseID, apiError("Invalid parameters")),
		schema.Body(schema.ParseSurveyUpdate, apiError("Validation failed")),
	).Put("/{id}", UpdateSurveyAPI(app))
	api.With(schema.Params(schema.ParseID, apiError("Invalid parameters"))).
		Delete("/{id}", DeleteSurveyAPI(app))

	api.Get("/stats/summary", SurveyStatsAPI(app))

	return api
}
