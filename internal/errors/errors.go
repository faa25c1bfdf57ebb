package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ecommerce-dashboard/internal/observability"
)

type ErrorCode string

const (
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest ErrorCode = "BAD_REQUEST"
	CodeRateLimit  ErrorCode = "RATE_LIMIT_EXCEEDED"
)

var statusByCode = map[ErrorCode]int{
	CodeInternal:   http.StatusInternalServerError,
	CodeBadRequest: http.StatusBadRequest,
	CodeRateLimit:  http.StatusTooManyRequests,
}

type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	TraceID    string    `json:"trace_id,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	e := New(code, message)
	e.Cause = err
	return e
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

// BadRequestWrap exposes the cause to the client as Details; use it only for
// errors describing the client's own input.
func BadRequestWrap(err error, message string) *AppError {
	e := Wrap(err, CodeBadRequest, message)
	e.Details = err.Error()
	return e
}

func RateLimit(message string) *AppError {
	return New(CodeRateLimit, message)
}

type ErrorResponse struct {
	Error   *AppError `json:"error"`
	Success bool      `json:"success"`
}

// WriteError writes err as a JSON error envelope tagged with the request and
// trace ids of r. Errors that are not an *AppError anywhere in their chain are
// reported as internal errors without exposing their text.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		appErr = Wrap(err, CodeInternal, "An unexpected error occurred")
	}

	ctx := r.Context()
	appErr.RequestID = observability.GetRequestID(ctx)
	appErr.TraceID = observability.TraceID(ctx)
	reqLogger := observability.RequestLogger(ctx, logger)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	if encodeErr := json.NewEncoder(w).Encode(ErrorResponse{Error: appErr}); encodeErr != nil {
		reqLogger.Error("failed to encode error response",
			"encode_error", encodeErr,
			"original_error", err,
		)
		return
	}

	level := slog.LevelError
	if appErr.StatusCode < http.StatusInternalServerError {
		level = slog.LevelWarn
	}

	reqLogger.Log(ctx, level, "request failed",
		"error_code", appErr.Code,
		"error_message", appErr.Message,
		"status_code", appErr.StatusCode,
		"cause", appErr.Cause,
	)
}

type SuccessResponse struct {
	Data    any  `json:"data"`
	Success bool `json:"success"`
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessWithHeaders(w, data, nil)
}

func WriteSuccessWithHeaders(w http.ResponseWriter, data any, headers map[string]string) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	json.NewEncoder(w).Encode(SuccessResponse{Data: data, Success: true})
}
