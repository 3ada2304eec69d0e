// Package httpx provides JSON response helpers for the API surface.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// errorBody is the wire format for all error responses.
type errorBody struct {
	Error string `json:"error"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends an error response as {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	JSON(w, status, errorBody{Error: message})
}

// DecodeJSON decodes the request body into target. Unknown fields are
// rejected so typos in client payloads surface as 400s instead of silently
// dropped fields.
func DecodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}
