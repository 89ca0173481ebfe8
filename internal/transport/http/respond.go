package http

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the response wrapper shared by every endpoint.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Meta      *Meta  `json:"meta,omitempty"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path,omitempty"`
}

type Meta struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	TotalItems      int64 `json:"totalItems"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, Envelope{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
	})
}

func writePaginated(w http.ResponseWriter, message string, data any, totalItems int64, page, limit int) {
	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Meta: &Meta{
			Page:            page,
			Limit:           limit,
			TotalItems:      totalItems,
			TotalPages:      totalPages,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
