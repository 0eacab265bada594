package relay

import (
	"fmt"
	"net/http"

	"translator/internal/models"
)

// ServiceError represents errors from the relay service with HTTP context.
// Message is what the extension shows to the user.
type ServiceError struct {
	Code        string
	Message     string
	StatusCode  int
	WaitSeconds int // Set only for quota rejections
	Err         error
}

func (e *ServiceError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(status int, code, message string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, StatusCode: status, Err: err}
}

// NewQuotaExceededError carries the wording the extension shows verbatim.
func NewQuotaExceededError(waitSeconds int) *ServiceError {
	e := newServiceError(http.StatusTooManyRequests, models.ErrorCodeQuotaExceeded,
		fmt.Sprintf("Rate limit exceeded. Please wait %d seconds before trying again.", waitSeconds), nil)
	e.WaitSeconds = waitSeconds
	return e
}

// NewTransportError surfaces the provider failure text as the message.
func NewTransportError(err error) *ServiceError {
	return newServiceError(http.StatusBadGateway, models.ErrorCodeTransportFailure, err.Error(), err)
}

func NewMalformedResponseError(err error) *ServiceError {
	return newServiceError(http.StatusBadGateway, models.ErrorCodeMalformedResponse, "No translation returned from API", err)
}

func NewInvalidRequestError(message string, err error) *ServiceError {
	return newServiceError(http.StatusBadRequest, models.ErrorCodeInvalidRequest, message, err)
}

func NewValidationError(message string, err error) *ServiceError {
	return newServiceError(http.StatusUnprocessableEntity, models.ErrorCodeValidation, message, err)
}

func NewInternalError(message string, err error) *ServiceError {
	return newServiceError(http.StatusInternalServerError, models.ErrorCodeInternalError, message, err)
}
