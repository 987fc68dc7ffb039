// Package respond writes JSON responses and maps service errors to HTTP
// status codes for every handler.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error        string `json:"error"`
	ActualStatus string `json:"actual_status,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

// Decode reads a JSON body into v and runs its validate tags.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding body: %v", apperr.ErrValidation, err)
	}

	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	return nil
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrStateConflict), errors.Is(err, apperr.ErrAlreadySubmitted):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// Fail writes msg as a JSON error body with the given status.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// Error writes err as a JSON body. Internal errors are logged and hidden from
// the caller.
func Error(w http.ResponseWriter, err error) {
	status := StatusFor(err)

	body := errorResponse{Error: err.Error()}
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
		body.Error = "internal error"
	}

	var conflict *offer.StateConflictError
	if errors.As(err, &conflict) {
		body.ActualStatus = string(conflict.Actual)
	}

	JSON(w, status, body)
}
