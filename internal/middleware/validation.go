package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"

	"hireloop/interview/internal/models"
	"hireloop/interview/internal/utils"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const validatedRequestKey contextKey = "validated_request"

// request models implement this interface
type Validator interface {
	Validate() error
}

// ValidateRequest decodes the JSON body into the route's request type, runs
// its Validate method, and stores the result in the request context so the
// handler can assume a well-formed request.
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Create a new instance of the request type
			var req T
			reqType := reflect.TypeOf(req)
			if reqType.Kind() == reflect.Ptr {
				req = reflect.New(reqType.Elem()).Interface().(T)
			} else {
				req = reflect.New(reqType).Interface().(T)
			}

			if err := json.NewDecoder(r.Body).Decode(req); err != nil {
				utils.Fail(w, http.StatusBadRequest, "Invalid JSON in request body")
				return
			}

			if err := req.Validate(); err != nil {
				if apiErr, ok := err.(*models.APIError); ok {
					utils.JSON(w, http.StatusBadRequest, apiErr)
				} else {
					utils.Fail(w, http.StatusBadRequest, err.Error())
				}
				return
			}

			ctx := context.WithValue(r.Context(), validatedRequestKey, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetValidatedRequest retrieves the validated request from context
func GetValidatedRequest[T any](r *http.Request) T {
	return r.Context().Value(validatedRequestKey).(T)
}
