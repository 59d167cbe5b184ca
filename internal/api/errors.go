package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/MJE43/keno-sim/internal/keno"
	"github.com/MJE43/keno-sim/internal/logging"
	"github.com/MJE43/keno-sim/internal/session"
)

// ErrorBuilder assembles an APIError.
type ErrorBuilder struct {
	errType   string
	message   string
	context   map[string]any
	requestID string
}

// NewError creates a new error builder.
func NewError(errType, message string) *ErrorBuilder {
	return &ErrorBuilder{
		errType: errType,
		message: message,
		context: make(map[string]any),
	}
}

// WithContext adds a key to the error context.
func (eb *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	eb.context[key] = value
	return eb
}

// WithRequestID sets the request ID.
func (eb *ErrorBuilder) WithRequestID(requestID string) *ErrorBuilder {
	eb.requestID = requestID
	return eb
}

// Build returns the finished APIError.
func (eb *ErrorBuilder) Build() APIError {
	return APIError{
		Type:      eb.errType,
		Message:   eb.message,
		Context:   eb.context,
		RequestID: eb.requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorHandler translates errors into logged JSON responses.
type ErrorHandler struct {
	logger zerolog.Logger
}

// NewErrorHandler creates an error handler that logs to logger.
func NewErrorHandler(logger zerolog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// classify maps a game or session error onto a response type and status.
func classify(err error) (string, int) {
	switch {
	case errors.Is(err, keno.ErrInvalidConfiguration):
		return ErrTypeInvalidConfiguration, http.StatusUnprocessableEntity
	case errors.Is(err, keno.ErrOutOfRange):
		return ErrTypeOutOfRange, http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrCardIncomplete):
		return ErrTypeCardIncomplete, http.StatusConflict
	case errors.Is(err, session.ErrRoundInProgress):
		return ErrTypeRoundInProgress, http.StatusConflict
	case errors.Is(err, keno.ErrPreconditionViolation):
		return ErrTypePrecondition, http.StatusConflict
	default:
		return ErrTypeInternal, http.StatusInternalServerError
	}
}

// HandleError writes err with the status its kind maps to.
func (eh *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	errType, status := classify(err)
	b := NewError(errType, err.Error()).
		WithRequestID(middleware.GetReqID(r.Context())).
		WithContext("path", r.URL.Path)

	var ve *keno.ValueError
	if errors.As(err, &ve) {
		b.WithContext("field", ve.Field).
			WithContext("value", ve.Value).
			WithContext("constraint", ve.Constraint)
	}

	apiErr := b.Build()
	eh.logError(r, apiErr, status)
	eh.writeErrorResponse(w, status, apiErr)
}

// HandleValidationError reports a malformed request.
func (eh *ErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, field, message string) {
	apiErr := NewError(ErrTypeValidation, fmt.Sprintf("Validation failed: %s", message)).
		WithRequestID(middleware.GetReqID(r.Context())).
		WithContext("field", field).
		WithContext("path", r.URL.Path).
		Build()

	eh.logError(r, apiErr, http.StatusBadRequest)
	eh.writeErrorResponse(w, http.StatusBadRequest, apiErr)
}

// requestLogger prefers the request-scoped logger set by LoggingMiddleware.
func (eh *ErrorHandler) requestLogger(r *http.Request) *zerolog.Logger {
	if l := logging.FromContext(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &eh.logger
}

func (eh *ErrorHandler) logError(r *http.Request, apiErr APIError, status int) {
	category := GetErrorCategory(apiErr.Type)
	logger := eh.requestLogger(r)

	ev := logger.Error()
	if status < http.StatusInternalServerError {
		ev = logger.Warn()
	}
	ev.Str("type", apiErr.Type).
		Str("category", string(category)).
		Int("status", status).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Fields(apiErr.Context).
		Msg(apiErr.Message)
}

func (eh *ErrorHandler) writeErrorResponse(w http.ResponseWriter, status int, apiErr APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Keno-Version", Version)
	w.Header().Set("X-Error-Type", apiErr.Type)
	w.Header().Set("X-Error-Category", string(GetErrorCategory(apiErr.Type)))
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(apiErr); err != nil {
		eh.logger.Error().Err(err).Msg("encode error response")
	}
}

// RecoveryHandler turns a panic into a logged 500 response.
func (eh *ErrorHandler) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				requestID := middleware.GetReqID(r.Context())
				eh.requestLogger(r).Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", rvr).
					Msg("panic recovered")

				apiErr := NewError(ErrTypeInternal, "Internal server error").
					WithRequestID(requestID).
					WithContext("path", r.URL.Path).
					Build()
				eh.writeErrorResponse(w, http.StatusInternalServerError, apiErr)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
