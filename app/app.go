package app

import (
	"github.com/dkinclub/butterfly-survey/config"
	"github.com/dkinclub/butterfly-survey/store"
	"github.com/dkinclub/butterfly-survey/views"
)

// App bundles the collaborators route handlers need. It is built once
// in main and passed down explicitly: no package-level state.
type App struct {
	Surveys   *store.SurveyStore
	Responses *store.ResponseStore
	Views     *views.Views
	config.Config
}
