package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-family-tree/internal/app"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/internal/service"
	"github.com/MKhiriev/go-family-tree/internal/store"
	"github.com/MKhiriev/go-family-tree/internal/utils"
	"github.com/MKhiriev/go-family-tree/models"
)

var errorStatusMap = map[error]int{
	service.ErrValidation:              http.StatusBadRequest,
	service.ErrInvalidCredentials:      http.StatusUnauthorized,
	service.ErrUnauthenticated:         http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrForbidden:               http.StatusForbidden,
	service.ErrPasswordHashing:         http.StatusInternalServerError,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,

	utils.ErrInvalidJSON: http.StatusBadRequest,
	ErrMissingPathID:     http.StatusBadRequest,

	store.ErrPersonNotFound:     http.StatusNotFound,
	store.ErrCredentialNotFound: http.StatusNotFound,
	store.ErrUsernameTaken:      http.StatusConflict,
	store.ErrPersonExists:       http.StatusConflict,
	store.ErrCredentialExists:   http.StatusConflict,

	store.ErrPersistence: http.StatusInternalServerError,
	store.ErrClosed:      http.StatusServiceUnavailable,
}

// errorMessages overrides the response text for statuses whose underlying
// error should not leak to the client.
var errorMessages = map[int]string{
	http.StatusInternalServerError: app.MsgInternalServerError,
	http.StatusServiceUnavailable:  app.MsgServiceShuttingDown,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps err to a status and writes it as {"message": ...}.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	event := log.Info()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Msg("request failed")

	message, ok := errorMessages[status]
	if !ok {
		message = err.Error()
	}
	utils.WriteJSON(w, models.MessageResponse{Message: message}, status)
}
