package web

import (
	"encoding/json"
	"net/http"
)

// Envelope is the JSON shape every endpoint responds with.
type Envelope map[string]any

func JSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// OK writes a success envelope, merging extra fields alongside "success": true.
func OK(w http.ResponseWriter, extra Envelope) {
	payload := Envelope{"success": true}
	for k, v := range extra {
		payload[k] = v
	}
	JSON(w, http.StatusOK, payload)
}

// Fail writes a failure envelope with the given message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{"success": false, "message": message})
}
