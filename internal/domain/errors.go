package domain

import "errors"

// Failure codes. These are part of the HTTP contract and must stay stable.
const (
	CodeEmailAlreadyExists  = "EMAIL_ALREADY_EXISTS"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeAddressNotFound     = "ADDRESS_NOT_FOUND"
	CodeCoordinatesNotFound = "COORDINATES_NOT_FOUND"
	CodeGeoProvider         = "GEO_PROVIDER_ERROR"
	CodeRegionNotFound      = "REGION_NOT_FOUND"
	CodeUpdateRegion        = "UPDATE_REGION_ERROR"
	CodeInvalidQuery        = "INVALID_QUERY"

	CodeCreateUser   = "CREATE_USER_ERROR"
	CodeGetUsers     = "GET_USERS_ERROR"
	CodeGetUser      = "GET_USER_ERROR"
	CodeUpdateUser   = "UPDATE_USER_ERROR"
	CodeDeleteUser   = "DELETE_USER_ERROR"
	CodeCreateRegion = "CREATE_REGION_ERROR"
	CodeGetRegions   = "GET_REGIONS_ERROR"
	CodeGetRegion    = "GET_REGION_ERROR"
	CodeDeleteRegion = "DELETE_REGION_ERROR"

	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeTimeout         = "TIMEOUT"
	CodeInternal        = "INTERNAL_ERROR"
)

var fallbackMessages = map[string]string{
	CodeCreateUser:   "Failed to create user",
	CodeGetUsers:     "Failed to retrieve users",
	CodeGetUser:      "Failed to retrieve user",
	CodeUpdateUser:   "Failed to update user",
	CodeDeleteUser:   "Failed to delete user",
	CodeCreateRegion: "Failed to create region",
	CodeGetRegions:   "Failed to retrieve regions",
	CodeGetRegion:    "Failed to retrieve region",
	CodeUpdateRegion: "Failed to update region",
	CodeDeleteRegion: "Failed to delete region",
}

// FallbackMessage is used when a failure carries no message of its own.
func FallbackMessage(code string) string {
	if m, ok := fallbackMessages[code]; ok {
		return m
	}
	return "Unexpected error"
}

// Error is a failure with a stable code.
type Error struct {
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return FallbackMessage(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(code, msg string) error { return &Error{Code: code, Msg: msg} }

func WrapError(code, msg string, err error) error { return &Error{Code: code, Msg: msg, Err: err} }

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

var (
	ErrEmailAlreadyExists = NewError(CodeEmailAlreadyExists, "The provided email is already in use.")
	ErrUserNotFound       = NewError(CodeUserNotFound, "User not found")
	ErrOwnerNotFound      = NewError(CodeUserNotFound, "The provided user id does not exist")
	ErrRegionNotFound     = NewError(CodeRegionNotFound, "Region not found")
	ErrRegionUpdateFailed = NewError(CodeUpdateRegion, "Failed to update the region")
)
