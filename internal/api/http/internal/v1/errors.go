package v1

import "net/http"

// Errors
const (
	UnknownErrorCode    = 0
	UnknownErrorMessage = "unknown error"

	InvalidInputCode               = 1000
	InvalidInputMessage            = "invalid input"
	SessionNotFoundCode            = 1002
	SessionNotFoundMessage         = "session not found"
	SessionAlreadyExistsCode       = 1003
	SessionAlreadyExistsMessage    = "session already exists"
	SessionExpiredCode             = 1004
	SessionExpiredMessage          = "session expired"
	UnauthorizedCode               = 1005
	UnauthorizedMessage            = "missing or invalid access token"
	InvalidInternalTokenCode       = 1006
	InvalidInternalTokenMessage    = "invalid internal token"
	SessionStoreUnavailableCode    = 1007
	SessionStoreUnavailableMessage = "session store unavailable"

	ValidationErrorCode    = 6000
	ValidationErrorMessage = "validation error"
)

type ErrorCode int
type ErrorMessage string

type ErrorStruct struct {
	ErrorCode    `json:"error_code"`
	ErrorMessage `json:"error_message"`
} // @name ErrorStruct

type ValidationErrorStruct struct {
	ErrorCode    int               `json:"error_code"`
	ErrorMessage string            `json:"error_message"`
	Errors       []ValidationError `json:"validation_errors"`
} // @name ValidationErrorStruct

type ValidationError struct {
	FieldKey     string `json:"field_key"`
	ErrorMessage string `json:"error_message"`
}

func getErrorStruct(code ErrorCode) (int, *ErrorStruct) {
	switch code {
	case InvalidInputCode:
		return http.StatusBadRequest, &ErrorStruct{InvalidInputCode, InvalidInputMessage}
	case SessionNotFoundCode:
		return http.StatusUnauthorized, &ErrorStruct{SessionNotFoundCode, SessionNotFoundMessage}
	case SessionAlreadyExistsCode:
		return http.StatusConflict, &ErrorStruct{SessionAlreadyExistsCode, SessionAlreadyExistsMessage}
	case SessionExpiredCode:
		return http.StatusUnauthorized, &ErrorStruct{SessionExpiredCode, SessionExpiredMessage}
	case UnauthorizedCode:
		return http.StatusUnauthorized, &ErrorStruct{UnauthorizedCode, UnauthorizedMessage}
	case InvalidInternalTokenCode:
		return http.StatusForbidden, &ErrorStruct{InvalidInternalTokenCode, InvalidInternalTokenMessage}
	case SessionStoreUnavailableCode:
		return http.StatusServiceUnavailable, &ErrorStruct{SessionStoreUnavailableCode, SessionStoreUnavailableMessage}
	}

	return http.StatusInternalServerError, &ErrorStruct{UnknownErrorCode, UnknownErrorMessage}
}
