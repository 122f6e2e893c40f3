// internals/helpers/apperror/apperror.go
package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kode error yang dikirim ke client (field "error" pada body).
const (
	CodeInvalidType        = "InvalidType"
	CodeNotFound           = "NotFound"
	CodeInvalidCredentials = "InvalidCredentials"
	CodeStoreError         = "StoreError"
	CodeActionNotFound     = "ActionNotFound"
	CodeConfigMissing      = "ConfigMissing"
	CodeBadRequest         = "BadRequest"
	CodeInvalidValue       = "InvalidValue"
	CodeUnauthorized       = "Unauthorized"
	CodeTooManyRequests    = "TooManyRequests"
	CodeInternal           = "InternalError"
)

// Error adalah error domain yang sudah tahu status HTTP dan kode mesinnya.
type Error struct {
	Code    string `json:"error"`
	Status  int    `json:"-"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is membandingkan berdasarkan kode, jadi errors.Is(err, ErrNotFound) tetap jalan
// walau pesannya beda.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetails mengembalikan salinan error dengan details terisi.
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// Sentinel untuk errors.Is.
var (
	ErrInvalidType        = &Error{Code: CodeInvalidType, Status: fiber.StatusBadRequest, Message: "invalid type"}
	ErrNotFound           = &Error{Code: CodeNotFound, Status: fiber.StatusNotFound, Message: "data not found"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Status: fiber.StatusUnauthorized, Message: "username atau password salah"}
	ErrStore              = &Error{Code: CodeStoreError, Status: fiber.StatusInternalServerError, Message: "database error"}
	ErrActionNotFound     = &Error{Code: CodeActionNotFound, Status: fiber.StatusNotFound, Message: "action not found"}
	ErrConfigMissing      = &Error{Code: CodeConfigMissing, Status: fiber.StatusInternalServerError, Message: "configuration missing"}
	ErrBadRequest         = &Error{Code: CodeBadRequest, Status: fiber.StatusBadRequest, Message: "bad request"}
	ErrInvalidValue       = &Error{Code: CodeInvalidValue, Status: fiber.StatusBadRequest, Message: "invalid value"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Status: fiber.StatusUnauthorized, Message: "unauthorized"}
)

/* ===============================
   Constructors
=================================*/

func InvalidType(entity string) *Error {
	return &Error{
		Code:    CodeInvalidType,
		Status:  fiber.StatusBadRequest,
		Message: fmt.Sprintf("Invalid type: %q", entity),
	}
}

func NotFound(entity string, id any) *Error {
	return &Error{
		Code:    CodeNotFound,
		Status:  fiber.StatusNotFound,
		Message: fmt.Sprintf("%s dengan id %v tidak ditemukan", entity, id),
	}
}

func InvalidCredentials() *Error {
	return &Error{
		Code:    CodeInvalidCredentials,
		Status:  fiber.StatusUnauthorized,
		Message: "Username atau password salah",
	}
}

// StoreError membungkus error database. Pesan asli ikut dikirim untuk diagnosa operator.
func StoreError(err error) *Error {
	msg := "database error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    CodeStoreError,
		Status:  fiber.StatusInternalServerError,
		Message: msg,
		Err:     err,
	}
}

func ActionNotFound(method, action string) *Error {
	return &Error{
		Code:    CodeActionNotFound,
		Status:  fiber.StatusNotFound,
		Message: fmt.Sprintf("Action %q tidak tersedia untuk method %s", action, method),
	}
}

func ConfigMissing(key string) *Error {
	return &Error{
		Code:    CodeConfigMissing,
		Status:  fiber.StatusInternalServerError,
		Message: fmt.Sprintf("Konfigurasi %s belum diset", key),
	}
}

func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Status: fiber.StatusBadRequest, Message: message}
}

func InvalidValue(field string, err error) *Error {
	return &Error{
		Code:    CodeInvalidValue,
		Status:  fiber.StatusBadRequest,
		Message: fmt.Sprintf("Nilai field %q tidak valid", field),
		Err:     err,
	}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Status: fiber.StatusUnauthorized, Message: message}
}

/* ===============================
   Boundary helpers
=================================*/

// From mengubah error apa pun menjadi *Error. *fiber.Error dipetakan sesuai status,
// sisanya jadi 500 InternalError.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return &Error{Code: codeForStatus(fe.Code), Status: fe.Code, Message: fe.Message, Err: err}
	}
	return &Error{
		Code:    CodeInternal,
		Status:  fiber.StatusInternalServerError,
		Message: err.Error(),
		Err:     err,
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return CodeBadRequest
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusNotFound:
		return CodeActionNotFound
	case fiber.StatusMethodNotAllowed:
		return CodeActionNotFound
	case fiber.StatusTooManyRequests:
		return CodeTooManyRequests
	default:
		if status >= 500 {
			return CodeInternal
		}
		return CodeBadRequest
	}
}
