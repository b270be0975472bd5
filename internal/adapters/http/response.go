package http

import (
	"encoding/json"
	"net/http"

	"github.com/learnforge/identity-service/internal/domain"
)

type apiError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiValidationError struct {
	Status  string              `json:"status"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"status":  "success",
		"message": message,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// writeFieldErrors renders an aggregated validation failure: one response,
// one entry per failed field.
func writeFieldErrors(w http.ResponseWriter, fields []domain.FieldError) {
	writeJSON(w, http.StatusBadRequest, apiValidationError{
		Status:  "error",
		Code:    "VALIDATION_ERROR",
		Message: "one or more fields failed validation",
		Errors:  fields,
	})
}
