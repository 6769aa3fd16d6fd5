// internal/app/system/respond/respond.go

// Package respond writes the JSON envelopes every handler in this service
// uses. Errors are a single {"error": "..."} object; the publish threshold
// confirmation is the one deliberate exception (it is a "please confirm"
// payload, not a failure).
package respond

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// Unauthorized is the canonical no-session answer.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "unauthorized")
}

// Forbidden is the canonical wrong-role answer.
func Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "forbidden"
	}
	Error(w, http.StatusForbidden, msg)
}

// NotFound deliberately does not distinguish "absent" from "exists but out of
// your scope", to avoid leaking existence.
func NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "not found"
	}
	Error(w, http.StatusNotFound, msg)
}
