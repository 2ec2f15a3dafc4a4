package utils

import (
	"encoding/json"
	"net/http"

	"hireloop/interview/internal/models"
)

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// OK writes the standard success envelope.
func OK(w http.ResponseWriter, message string, data interface{}) {
	JSON(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail writes the standard failure envelope with the given status code.
func Fail(w http.ResponseWriter, statusCode int, message string, errs ...string) {
	JSON(w, statusCode, models.NewAPIError(message, errs...))
}
