package customerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type BusinessError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("code: %d, message: %s", e.Code, e.Message)
}

func NewBusinessError(code int, message string) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
	}
}

var (
	ErrUnauthorized        = NewBusinessError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden           = NewBusinessError(http.StatusForbidden, "forbidden")
	ErrInvalidParams       = NewBusinessError(http.StatusBadRequest, "invalid params")
	ErrInternalServerError = NewBusinessError(http.StatusInternalServerError, "internal server error")

	ErrUserNotFound    = NewBusinessError(http.StatusNotFound, "user not found")
	ErrEmailExists     = NewBusinessError(http.StatusConflict, "a user with this email already exists")
	ErrInvalidCursor   = NewBusinessError(http.StatusBadRequest, "invalid pagination cursor")
	ErrTooManyRequests = NewBusinessError(http.StatusTooManyRequests, "too many requests")
)

func GetBusinessError(err error) *BusinessError {
	if err == nil {
		return nil
	}
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr
	}
	return nil
}
