// Package apperror defines the client and server error categories returned by
// the API and maps them onto HTTP responses.
package apperror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Kind string

const (
	KindMissingField  Kind = "MISSING_FIELD"
	KindInvalidNumber Kind = "INVALID_NUMBER"
	KindInvalidDate   Kind = "INVALID_DATE"
	KindUserNotFound  Kind = "USER_NOT_FOUND"
	KindStoreFailure  Kind = "STORE_FAILURE"
)

const serverErrorMessage = "Server Error"

// Error is the error type surfaced by services. Message is safe to show to
// clients; Err carries the underlying cause for StoreFailure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func MissingField(message string) *Error {
	return &Error{Kind: KindMissingField, Message: message}
}

func InvalidNumber(message string) *Error {
	return &Error{Kind: KindInvalidNumber, Message: message}
}

func InvalidDate(message string) *Error {
	return &Error{Kind: KindInvalidDate, Message: message}
}

func UserNotFound() *Error {
	return &Error{Kind: KindUserNotFound, Message: "User not found"}
}

func StoreFailure(err error) *Error {
	return &Error{Kind: KindStoreFailure, Message: serverErrorMessage, Err: err}
}

// KindOf returns the category of err. Errors that are not *Error are
// treated as store failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStoreFailure
}

// Is reports whether err belongs to the given category.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCode maps an error onto the HTTP status sent to the client.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindMissingField, KindInvalidNumber, KindInvalidDate, KindUserNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as {"error": message}. Server-side failures are logged
// with their cause and answered with a generic message.
func Respond(c *gin.Context, err error) {
	status := StatusCode(err)

	var appErr *Error
	if status >= http.StatusInternalServerError || !errors.As(err, &appErr) {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": serverErrorMessage})
		return
	}

	c.JSON(status, gin.H{"error": appErr.Message})
}
