// Package handlers implements the /api/v1 HTTP handlers. Handlers depend on
// narrow service interfaces so tests can drive them with testify mocks.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/auth/session"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// maxBodyBytes caps decoded request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeData wraps data in the success envelope.
func writeData[T any](w http.ResponseWriter, statusCode int, data T) {
	writeJSON(w, statusCode, common.NewSuccessResponse(data))
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, statusCode int, code errors.ErrorCode, message string) {
	writeJSON(w, statusCode, ErrorResponse{Code: code.String(), Message: message})
}

// writeAppError maps err to its HTTP status. Server-side failures are logged
// and masked; client errors echo the error message.
func writeAppError(w http.ResponseWriter, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logging.Err(err), logging.String("code", code.String()))
		if code == errors.CodeUnknown {
			code = errors.CodeInternal
		}
		writeError(w, status, code, errors.DefaultMessageForCode(code))
		return
	}

	message := errors.DefaultMessageForCode(code)
	var ae *errors.AppError
	if errors.As(err, &ae) && ae.Message != "" {
		message = ae.Message
	}
	writeJSON(w, status, ErrorResponse{Code: code.String(), Message: message})
}

// decodeJSON reads one JSON object from the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return errors.New(errors.ErrCodeBadRequest, "invalid request body").WithCause(err)
	}
	return nil
}

// authorFrom returns the caller identity set by middleware.Identity.
func authorFrom(r *http.Request) common.Identity {
	return session.IdentityFrom(r.Context())
}

// ─────────────────────────────────────────────────────────────────────────────
// Query parsing
// ─────────────────────────────────────────────────────────────────────────────

// queryInt parses an optional integer parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidationError(name, name+" must be an integer")
	}
	return n, nil
}

// queryFloat parses an optional float parameter; nil means absent.
func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.NewValidationError(name, name+" must be a number")
	}
	return &f, nil
}

// queryList collects a repeatable parameter; each occurrence may also be a
// comma-separated list.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, raw := range r.URL.Query()[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// parsePagination extracts page and page_size, clamped to [1, maxSize].
func parsePagination(r *http.Request, defSize, maxSize int) (int, int) {
	page, err := queryInt(r, "page", 1)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := queryInt(r, "page_size", defSize)
	if err != nil || size < 1 {
		size = defSize
	}
	if size > maxSize {
		size = maxSize
	}
	return page, size
}

//Personal.AI order the ending
