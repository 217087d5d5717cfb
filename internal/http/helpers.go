package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"kna-archive-backend-go/internal/services"
)

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// parseDate parses an optional yyyy-mm-dd value. A nil or blank input yields
// nil without error; a malformed value is an error.
func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// mapServiceError writes the response for a ServiceError and reports whether
// it handled the error. Unknown errors stay with the caller.
func mapServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if serr, ok := err.(services.ServiceError); ok {
		WriteError(w, serr.Status, serr.Message)
		return true
	}
	return false
}

func writeServiceError(w http.ResponseWriter, err error) {
	if mapServiceError(w, err) {
		return
	}
	WriteError(w, http.StatusInternalServerError, "Er is een interne fout opgetreden.")
}
