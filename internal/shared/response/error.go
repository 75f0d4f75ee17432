package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"galaxy-server/internal/shared/errors"
)

const internalMessage = "internal server error"

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

var statusByType = map[errors.ErrorType]int{
	errors.ErrorTypeNotFound:         http.StatusNotFound,
	errors.ErrorTypeValidation:       http.StatusBadRequest,
	errors.ErrorTypeConflict:         http.StatusConflict,
	errors.ErrorTypeUnauthorized:     http.StatusUnauthorized,
	errors.ErrorTypeForbidden:        http.StatusForbidden,
	errors.ErrorTypeMethodNotAllowed: http.StatusMethodNotAllowed,
	errors.ErrorTypeExternal:         http.StatusServiceUnavailable,
	errors.ErrorTypeRateLimited:      http.StatusTooManyRequests,
	errors.ErrorTypeInternal:         http.StatusInternalServerError,
}

// Error logs err and writes it as JSON. Internal errors reach the client
// as a generic message.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	statusCode := StatusCode(errorType)

	logError(logger, r, err, errorType, statusCode)

	message := err.Error()
	if errorType == errors.ErrorTypeInternal {
		message = internalMessage
	}
	writeJSON(w, statusCode, ErrorResponse{
		Error:   string(errorType),
		Message: message,
		Code:    statusCode,
	})
}

func StatusCode(errorType errors.ErrorType) int {
	if code, ok := statusByType[errorType]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func logError(logger *slog.Logger, r *http.Request, err error, errorType errors.ErrorType, statusCode int) {
	logCtx := logger.With(
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", statusCode,
	)

	switch errorType {
	case errors.ErrorTypeNotFound:
		logCtx.Debug("Resource not found", "error", err)
	case errors.ErrorTypeValidation, errors.ErrorTypeMethodNotAllowed:
		logCtx.Debug("Client error", "error", err)
	case errors.ErrorTypeUnauthorized, errors.ErrorTypeForbidden, errors.ErrorTypeRateLimited:
		logCtx.Warn("Authorization error", "error", err)
	case errors.ErrorTypeConflict:
		logCtx.Info("Conflict error", "error", err)
	case errors.ErrorTypeExternal:
		logCtx.Error("External service error", "error", err)
	default:
		logCtx.Error("Internal server error", "error", err)
	}
}

// Success writes data as JSON with the given status.
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, data)
}

// writeJSON encodes before writing the header so an unencodable payload
// becomes a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	var body []byte
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			slog.Error("Failed to encode response", "component", "response", "error", err)
			statusCode = http.StatusInternalServerError
			encoded, _ = json.Marshal(ErrorResponse{
				Error:   string(errors.ErrorTypeInternal),
				Message: internalMessage,
				Code:    statusCode,
			})
		}
		body = append(encoded, '\n')
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body != nil {
		_, _ = w.Write(body)
	}
}

// Binary writes an opaque payload such as an encoded point cloud.
func Binary(w http.ResponseWriter, statusCode int, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(statusCode)
	_, _ = w.Write(data)
}
