package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/schengen-tracker/internal/domain"
)

// Error codes carried in ErrorDetail.Code.
const (
	codeNotFound      = "not_found"
	codeValidation    = "validation_error"
	codeOverlap       = "overlap"
	codeRuleViolation = "rule_violation"
	codeInvalidDate   = "invalid_date"
	codeTooLarge      = "request_too_large"
	codeInternal      = "internal_error"
)

// writeJSON encodes body as the JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client is gone if this fails; nothing left to report to.
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeServiceError maps an error from the service layer to an HTTP response.
// notFound is the message used for domain.ErrNotFound, because the handler is
// the layer that knows what was being looked up. Unmapped errors are logged
// and returned as 500 without leaking their text.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var parseErr *domain.ParseError
	switch {
	case errors.As(err, &parseErr):
		writeError(w, http.StatusBadRequest, codeInvalidDate, parseErr.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, notFound)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrOverlap):
		writeError(w, http.StatusConflict, codeOverlap, unwrapMessage(err, domain.ErrOverlap))
	case errors.Is(err, domain.ErrRuleViolation):
		writeError(w, http.StatusUnprocessableEntity, codeRuleViolation, unwrapMessage(err, domain.ErrRuleViolation))
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// unwrapMessage extracts the human-readable detail that follows a wrapped
// sentinel, e.g.
// "service.TripService.Create: validation error: end_date must not be before start_date"
// becomes "end_date must not be before start_date". Without detail the
// sentinel's own text is returned.
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}

// decodeBody decodes the JSON request body into dst. It writes the error
// response itself and returns false when decoding fails.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "request body is required")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "malformed JSON body")
		return false
	}
	return true
}
