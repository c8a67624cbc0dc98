package server

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON-LD error body.
type ErrorResponse struct {
	Type        []string `json:"@type"`
	Status      string   `json:"status"`
	Code        int      `json:"code"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Detail      string   `json:"detail,omitempty"`
}

var errorTypes = map[int]string{
	http.StatusBadRequest:          "HTTPBadRequest",
	http.StatusNotFound:            "HTTPNotFound",
	http.StatusInternalServerError: "HTTPInternalServerError",
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg, ref string) error {
	response := ErrorResponse{
		Type:        []string{errorTypes[status], "Error"},
		Status:      "error",
		Code:        status,
		Title:       http.StatusText(status),
		Description: msg,
	}
	if ref != "" {
		response.Detail = "ref: " + ref
	}
	return writeJSON(w, status, response)
}
