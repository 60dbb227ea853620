package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/dkinclub/butterfly-survey/app"
	"github.com/dkinclub/butterfly-survey/config"
	"github.com/dkinclub/butterfly-survey/database"
	"github.com/dkinclub/butterfly-survey/log"
	"github.com/dkinclub/butterfly-survey/routes"
	"github.com/dkinclub/butterfly-survey/store"
	"github.com/dkinclub/butterfly-survey/views"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	log.SetLevel(log.ParseLevel(cfg.LogLevel))

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	v, err := views.New()
	if err != nil {
		log.Fatal("main.views:", err)
	}

	app := app.App{
		Surveys:   store.NewSurveyStore(db),
		Responses: store.NewResponseStore(db),
		Views:     v,
		Config:    cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Infof("%s v%s", cfg.AppName, cfg.AppVersion)
	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
