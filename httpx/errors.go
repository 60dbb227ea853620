package httpx

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/dkinclub/butterfly-survey/log"
)

// ErrorResponse is the JSON error envelope shared by every API route.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Will log the underlying error only; the caller owns the response.
func LogStorageError(code string, err error) {
	log.Errorf("%s: %s", code, err)
}

// Will log the underlying error, and answer 500 with a generic message.
// Raw storage errors never reach the client.
func LogInternalError(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Errorf("%s: %s", code, err)
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, ErrorResponse{Error: "Internal server error"})
}

// Will log a debug message, and answer 404.
func LogNotFound(w http.ResponseWriter, r *http.Request, code string, resource string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, ErrorResponse{
		Error:   resource + " not found",
		Message: "Survey with the given ID does not exist",
	})
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string, details any) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: msg, Details: details})
}

func Conflict(w http.ResponseWriter, r *http.Request, msg, detail string) {
	render.Status(r, http.StatusConflict)
	render.JSON(w, r, ErrorResponse{Error: msg, Message: detail})
}
