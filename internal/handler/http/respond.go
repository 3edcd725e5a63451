package http

import (
	"AutosValle-Backend/internal/repository"
	"AutosValle-Backend/internal/service"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps service/repository errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		fields := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, fe.Field())
		}
		writeError(w, "Invalid or missing fields: "+strings.Join(fields, ", "), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidDuration):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrVehicleNotFound):
		writeError(w, "Vehicle not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrRequestNotFound):
		writeError(w, "Request not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrRequestProcessed):
		writeError(w, "Request has already been processed", http.StatusConflict)
	default:
		writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// pathID extracts the numeric id segment following a route prefix, e.g.
// "/api/vehicles/42/click" with prefix "/api/vehicles/" yields 42 and "click".
func pathID(path, prefix string) (int64, string, bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == path || rest == "" {
		return 0, "", false
	}
	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 2)
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}
	return id, action, true
}

// clientIP resolves the visitor address, honoring the first X-Forwarded-For
// hop when present.
func clientIP(r *http.Request) *string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip := strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
		if ip != "" {
			return &ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return nil
	}
	return &host
}

func clientUserAgent(r *http.Request) *string {
	ua := r.Header.Get("User-Agent")
	if ua == "" {
		return nil
	}
	return &ua
}

func clientReferrer(r *http.Request) *string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return nil
	}
	return &ref
}
