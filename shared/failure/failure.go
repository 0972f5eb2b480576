package failure

import (
	"errors"
	"net/http"
)

const (
	KindValidation    = "validation"
	KindConflict      = "conflict"
	KindNotFound      = "not_found"
	KindForbidden     = "forbidden"
	KindUnauthorized  = "unauthorized"
	KindPayment       = "payment"
	KindInternal      = "internal"
	KindUnimplemented = "unimplemented"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
// Kind is a stable identifier clients can switch on.
type Failure struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Kind: KindForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Kind: KindForbidden, Message: "You don't have permission to access this resource"}

func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a validation Failure carrying the message of err.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a validation Failure with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Kind:    KindUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Kind:    KindInternal,
			Message: err.Error(),
		}
	}

	return nil
}

func Unimplemented(methodName string) error {
	return &Failure{
		Code:    http.StatusNotImplemented,
		Kind:    KindUnimplemented,
		Message: methodName,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: entityName,
	}
}

// Conflict reports a request that clashes with current state. It is answered
// with 400 so clients treat it like any other rejected input.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Kind:    KindForbidden,
		Message: msg,
	}
}

// PaymentRejected is a payment failure caused by the caller's input,
// e.g. a declined card or an amount below the chargeable minimum.
func PaymentRejected(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindPayment,
		Message: msg,
	}
}

// PaymentError is a payment failure on the processor side.
func PaymentError(msg string) error {
	return &Failure{
		Code:    http.StatusInternalServerError,
		Kind:    KindPayment,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the kind of err, defaulting to internal.
func GetKind(err error) string {
	var fail *Failure
	if errors.As(err, &fail) && fail.Kind != "" {
		return fail.Kind
	}

	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind string) bool {
	var fail *Failure

	return errors.As(err, &fail) && fail.Kind == kind
}
