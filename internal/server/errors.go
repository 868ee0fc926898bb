package server

import (
	"net/http"

	apperrors "github.com/gsaclient/gsa/internal/errors"
)

// HandleError is the single error responder for every route.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.RespondWithError(w, r, err)
}
