package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a failure beyond its HTTP code, so callers can branch on
// what went wrong without parsing messages.
const (
	KindBadRequest            = "bad_request"
	KindUnauthorized          = "unauthorized"
	KindForbidden             = "forbidden"
	KindNotFound              = "not_found"
	KindConflict              = "conflict"
	KindInternal              = "internal"
	KindUnimplemented         = "unimplemented"
	KindInvalidTimeWindow     = "invalid_time_window"
	KindOwnerCannotReserveOwn = "owner_cannot_reserve_own_item"
	KindItemUnavailable       = "item_unavailable"
	KindSlotConflict          = "slot_conflict"
	KindAlreadyDecided        = "already_decided"
	KindUnknownState          = "unknown_state"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Kind: KindForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Kind: KindForbidden, Message: "You don't have permission to access this resource"}

// Error returns the failure message.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
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

// Unimplemented returns a new Failure with code for unimplemented method.
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

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
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

// InvalidTimeWindow reports a reservation window that fails one of the
// time-ordering rules. The message names the rule that failed.
func InvalidTimeWindow(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindInvalidTimeWindow,
		Message: msg,
	}
}

// OwnerCannotReserveOwnItem reports an owner trying to reserve their own item.
func OwnerCannotReserveOwnItem(msg string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindOwnerCannotReserveOwn,
		Message: msg,
	}
}

// ItemUnavailable reports an item whose owner has switched availability off.
func ItemUnavailable(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindItemUnavailable,
		Message: msg,
	}
}

// SlotConflict reports a window that collides with an approved reservation.
func SlotConflict(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindSlotConflict,
		Message: msg,
	}
}

// AlreadyDecided reports a repeated approve/reject on a decided reservation.
func AlreadyDecided(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindAlreadyDecided,
		Message: msg,
	}
}

// UnknownState reports an unrecognized reservation state filter.
func UnknownState(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindUnknownState,
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

// GetKind returns the failure kind of an error interface.
func GetKind(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}
