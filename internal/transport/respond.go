package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"taniku/internal/domain"
	"taniku/internal/middleware"
	"taniku/internal/repository"
	"taniku/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MessageResponse is the body of operations that only report success
type MessageResponse struct {
	Message string `json:"message"`
}

// statusFor maps a service or repository error to its HTTP status and client message
func statusFor(err error) (int, string) {
	var missing *service.MissingItemError
	switch {
	case errors.As(err, &missing):
		return http.StatusNotFound, missing.Error()
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	case errors.Is(err, repository.ErrUserAlreadyExists),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrOrderNotDeletable):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotAuthenticated), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "insufficient permissions"
	case errors.Is(err, repository.ErrItemNotFound):
		return http.StatusNotFound, "item not found"
	case errors.Is(err, repository.ErrOrderNotFound):
		return http.StatusNotFound, "order not found"
	case errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, service.ErrCartLineNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}

// respondWithServiceError writes err as a JSON error. Unmapped errors are
// logged and reported with the generic fallback message.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, status, fallback)
		return
	}
	logger.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	middleware.RespondWithError(w, status, message)
}

// decodeRequest decodes and validates the JSON body, answering 400 on failure
func decodeRequest(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// principalFrom returns the authenticated caller, answering 401 when absent
func principalFrom(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
	}
	return p, ok
}

// idParam parses a positive integer URL parameter, answering 400 when malformed
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
