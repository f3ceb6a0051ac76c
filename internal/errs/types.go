package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

type UnauthorizedError struct {
	ErrorMessage
}

// ConfigurationError reports a required setting (usually a URL) that is absent.
type ConfigurationError struct {
	ErrorMessage
	Setting string
}

// APIError is a non-2xx answer from an upstream HTTP service.
// Data holds the decoded JSON error body, or nil when the body was not JSON.
type APIError struct {
	ErrorMessage
	Status     int
	StatusText string
	Data       any
}

// MalformedResponseError is a 2xx answer whose body does not have the expected shape.
type MalformedResponseError struct {
	ErrorMessage
	Service string
	Err     error
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ExternalServiceError wraps a failure to reach an upstream service at all.
type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewConfigurationError(setting, message string) *ConfigurationError {
	return &ConfigurationError{
		ErrorMessage: ErrorMessage{Message: message},
		Setting:      setting,
	}
}

func NewAPIError(status int, statusText string, data any) *APIError {
	return &APIError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("API request failed: %s", statusText)},
		Status:       status,
		StatusText:   statusText,
		Data:         data,
	}
}

func NewMalformedResponseError(service, message string, err error) *MalformedResponseError {
	return &MalformedResponseError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}
