package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"gider/internal/api"
	"gider/internal/core"
	"gider/internal/memory"
	"gider/internal/token"
	"gider/internal/tokenstore"
)

// notification is the uniform mutation response body.
type notification struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, notification{Status: "error", Message: message})
}

func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, notification{Status: "success", Message: message})
}

// respondError maps domain and transport failures onto HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tokenstore.ErrNoToken),
		errors.Is(err, token.ErrMalformedToken),
		errors.Is(err, token.ErrMissingIdentity):
		writeError(w, http.StatusUnauthorized, "sign in required")
		return
	case errors.Is(err, memory.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var fe *api.FetchError
	if errors.As(err, &fe) {
		if fe.Unauthorized() {
			writeError(w, http.StatusUnauthorized, "session expired, sign in again")
			return
		}
		writeError(w, http.StatusBadGateway, fe.Message)
		return
	}

	var me *api.MutationError
	if errors.As(err, &me) {
		status := http.StatusBadGateway
		if me.Status >= 400 && me.Status < 500 {
			status = me.Status
		}
		writeError(w, status, me.Message)
		return
	}

	// Validation failures from the domain layer
	if isValidationError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeError(w, http.StatusInternalServerError, "internal error")
}

var validationSentinels = []error{
	core.ErrInvalidAmount,
	core.ErrEmptyTitle,
	core.ErrEmptyName,
	core.ErrMissingCategory,
	core.ErrLimitRange,
}

func isValidationError(err error) bool {
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// extractClientIP extracts the real client IP, validating forwarded headers.
func extractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsedDirectIP := net.ParseIP(directIP)
	if parsedDirectIP == nil {
		return directIP
	}

	if parsedDirectIP.IsLoopback() || parsedDirectIP.IsPrivate() {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if net.ParseIP(xri) != nil {
				return xri
			}
		}
	}

	return directIP
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
