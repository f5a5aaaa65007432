package errors

import (
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter maps classified errors onto HTTP status codes for the file server.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates a new HTTP error adapter with an optional slog logger.
// If logger is nil, the default package logger will be used.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// StatusCodeFor determines the HTTP status code for a given error based on
// its classification. Unknown errors map to 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if c, ok := AsClassified(err); ok {
		switch c.Category() {
		case CategoryValidation, CategoryConfig:
			return http.StatusBadRequest
		case CategoryNotFound:
			return http.StatusNotFound
		case CategoryRuntime:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}

	return http.StatusInternalServerError
}

// LogRequestError logs err for r at a level derived from its severity.
// Not-found lookups are logged at debug level.
func (a *HTTPErrorAdapter) LogRequestError(r *http.Request, err error) {
	if err == nil {
		return
	}
	if HasCategory(err, CategoryNotFound) {
		a.logger.DebugContext(r.Context(), "Request path not found", "path", r.URL.Path)
		return
	}
	level := slogLevelFromSeverity(GetSeverity(err))
	a.logger.Log(r.Context(), level, "Request failed", "path", r.URL.Path, "error", err.Error())
}
