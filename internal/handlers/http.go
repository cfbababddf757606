package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/abrezinsky/bracketview/internal/errors"
	"github.com/abrezinsky/bracketview/internal/services"
)

// Error codes for standardized API error responses
const (
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInternalServer    = "INTERNAL_SERVER_ERROR"
	ErrCodeUpstream          = "UPSTREAM_ERROR"
	ErrCodeUpstreamMalformed = "UPSTREAM_MALFORMED"
	ErrCodeNotConfigured     = "NOT_CONFIGURED"
	ErrCodeUnavailable       = "SERVICE_UNAVAILABLE"
)

// APIError represents an error with an HTTP status code and error code
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrBadRequest     = &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: "Bad request"}
	ErrNotFound       = &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: "Not found"}
	ErrInternalServer = &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
	ErrNoBracketData  = &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: "No bracket data."}
)

func apiError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// NewAPIError creates an API error with an explicit status and code
func NewAPIError(status int, code, message string) *APIError {
	return apiError(status, code, message)
}

// BadRequest is a 400; messages mentioning "invalid" carry the validation code
func BadRequest(message string) *APIError {
	if strings.Contains(strings.ToLower(message), "invalid") {
		return apiError(http.StatusBadRequest, ErrCodeValidation, message)
	}
	return apiError(http.StatusBadRequest, ErrCodeBadRequest, message)
}

func NotFound(message string) *APIError {
	return apiError(http.StatusNotFound, ErrCodeNotFound, message)
}

func Unavailable(message string) *APIError {
	return apiError(http.StatusServiceUnavailable, ErrCodeUnavailable, message)
}

// InternalError hides err from the client and logs it
func InternalError(err error) *APIError {
	slog.Error("Internal error", "error", err)
	return apiError(http.StatusInternalServerError, ErrCodeInternalServer, ErrInternalServer.Message)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Debug("Response write failed", "error", err)
	}
}

func respondOK(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusOK, data)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

func respondAccepted(w http.ResponseWriter, message string) {
	respondMessage(w, http.StatusAccepted, message)
}

func respondSuccess(w http.ResponseWriter, message string) {
	respondMessage(w, http.StatusOK, message)
}

// respondError writes err as an APIError body
func respondError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = ToAPIError(err)
	}
	respondJSON(w, apiErr.Status, apiErr)
}

// decodeJSON decodes JSON from request body into the target
func decodeJSON(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if err == io.EOF {
			return BadRequest("Request body is empty")
		}
		return BadRequest("Invalid JSON: " + err.Error())
	}
	return nil
}

// parseIntQuery extracts an optional integer query parameter, fallback when absent
func parseIntQuery(r *http.Request, name string, fallback int) (int, error) {
	param := r.URL.Query().Get(name)
	if param == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(param)
	if err != nil {
		return 0, BadRequest("Invalid " + name + " parameter")
	}
	return n, nil
}

// kindStatus maps error kinds that reach the client as-is
var kindStatus = map[errors.Kind]struct {
	status int
	code   string
}{
	errors.ErrNotFound:   {http.StatusNotFound, ErrCodeNotFound},
	errors.ErrValidation: {http.StatusBadRequest, ErrCodeValidation},
	errors.ErrTransport:  {http.StatusBadGateway, ErrCodeUpstream},
	errors.ErrMalformed:  {http.StatusBadGateway, ErrCodeUpstreamMalformed},
}

// ToAPIError maps kinded and service errors onto HTTP responses. Anything
// unrecognized becomes a logged 500.
func ToAPIError(err error) *APIError {
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		if m, ok := kindStatus[appErr.Kind]; ok {
			return apiError(m.status, m.code, appErr.Message)
		}
		return InternalError(err)
	}

	var poolErr *services.UnknownPoolError
	if stderrors.As(err, &poolErr) {
		return NotFound(poolErr.Error())
	}
	var svcErr *services.ServiceError
	if stderrors.As(err, &svcErr) {
		return apiError(http.StatusServiceUnavailable, ErrCodeNotConfigured, svcErr.Message)
	}

	return InternalError(err)
}
