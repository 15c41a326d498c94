package errorx

import "net/http"

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	TooManyRequests  Code = 100010
)

var httpStatuses = map[Code]int{
	BadRequest:       http.StatusBadRequest,
	BadResponse:      http.StatusInternalServerError,
	PermissionDenied: http.StatusForbidden,
	NotFound:         http.StatusNotFound,
	Unauthenticated:  http.StatusUnauthorized,
	AlreadyExists:    http.StatusConflict,
	Internal:         http.StatusInternalServerError,
	Unavailable:      http.StatusServiceUnavailable,
	NotImplemented:   http.StatusNotImplemented,
	TooManyRequests:  http.StatusTooManyRequests,
}

// HTTPStatus returns the http status code corresponding to the error code. Unknown codes are
// treated as internal errors.
func HTTPStatus(code Code) int {
	if status, ok := httpStatuses[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}
