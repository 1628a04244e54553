package errcodes

import (
	"fmt"
	"net/http"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
	// Field names the offending request parameter, when there is one.
	Field string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	te.Field = err.Field
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// Unauthorized returns a 401 error with the given message.
func Unauthorized(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnauthorized,
		Message:  msg,
		Code:     "unauthorized",
	}
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " not found.",
		Code:     "not_found",
	}
}

// InvalidQuery returns a 400 error for a structurally malformed query
// parameter, e.g. a non-numeric page.
func InvalidQuery(field, msg string) error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  fmt.Sprintf("Invalid value for %q: %s", field, msg),
		Code:     "invalid_query",
		Field:    field,
	}
}

// CycleDetected returns a 500 error for a folder whose parent chain loops or
// runs deeper than the traversal guard allows.
func CycleDetected(folderID int) error {
	return &Error{
		HTTPCode: http.StatusInternalServerError,
		Message:  fmt.Sprintf("Folder %d has a cyclic or too deep parent chain.", folderID),
		Code:     "cycle_detected",
	}
}

// InconsistentTree returns a 500 error for a folder whose parent reference
// points at a folder that doesn't exist for the same owner.
func InconsistentTree(folderID, parentID int) error {
	return &Error{
		HTTPCode: http.StatusInternalServerError,
		Message:  fmt.Sprintf("Folder %d references missing parent folder %d.", folderID, parentID),
		Code:     "inconsistent_tree",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		HTTPCode: http.StatusUnsupportedMediaType,
		Message:  "Unsupported Media Type",
		Code:     "unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  fmt.Sprintf("Unknown Parameter %q", param),
		Code:     "unknown_parameter",
		Field:    param,
	}
}

// ValidationTypeError returns a 422 error for a parameter whose value can't be
// decoded into the expected type.
func ValidationTypeError(field, msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_type_error",
		Field:    field,
	}
}

// ValidationError returns a 422 error for a well-typed parameter that fails a
// validation rule.
func ValidationError(field, msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_error",
		Field:    field,
	}
}

func MalformedPayload() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Malformed Payload",
		Code:     "malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Request body can't be empty.",
		Code:     "empty_request_body",
	}
}

// PayloadTooLarge returns a 413 error for a request body over the limit.
func PayloadTooLarge(limit int64) error {
	return &Error{
		HTTPCode: http.StatusRequestEntityTooLarge,
		Message:  fmt.Sprintf("Request body can't be larger than %d bytes.", limit),
		Code:     "payload_too_large",
	}
}
