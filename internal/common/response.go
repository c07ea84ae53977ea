package common

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the payload under the "error" key of every failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// DataPage wraps a page of results with its pagination metadata.
type DataPage struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// JSON encodes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Data encodes v under the "data" key.
func Data(w http.ResponseWriter, status int, v any) {
	JSON(w, status, struct {
		Data any `json:"data"`
	}{Data: v})
}

// JSONError renders the canonical error shape.
func JSONError(w http.ResponseWriter, status int, code, message string, details any) {
	JSON(w, status, struct {
		Error ErrorBody `json:"error"`
	}{Error: ErrorBody{Code: code, Message: message, Details: details}})
}
