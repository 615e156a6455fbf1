package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/domain"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteError maps application errors to HTTP responses. Domain and service
// errors expose their own message; anything else is masked so wrapped
// processor or database detail never reaches the client.
func WriteError(w http.ResponseWriter, err error) {
	status := application.ToHTTPStatus(err)

	detail := ErrorDetail{
		Code:    application.ToErrorCode(err),
		Message: clientMessage(err, status),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: detail})
}

func clientMessage(err error, status int) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	var svcErr *application.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	if status >= http.StatusInternalServerError {
		return "an unexpected error occurred"
	}
	return err.Error()
}
