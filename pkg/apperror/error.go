package apperror

import "net/http"

// Stable machine-readable error codes returned to clients.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "RESOURCE_NOT_FOUND"
	CodeDuplicate      = "RESOURCE_CONFLICT"
	CodeDuplicateEmail = "DUPLICATE_EMAIL"
	CodeBusiness       = "BUSINESS_ERROR"
	CodeFileUpload     = "FILE_UPLOAD_FAILED"
	CodeFileTooLarge   = "FILE_TOO_LARGE"
	CodeInternal       = "INTERNAL_SERVER_ERROR"
)

type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Validation(message string) *AppError {
	return New(http.StatusBadRequest, CodeValidation, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeNotFound, message, nil)
}

func Duplicate(message string) *AppError {
	return New(http.StatusConflict, CodeDuplicate, message, nil)
}

// DuplicateEmail is the anticipated unique-email conflict; it carries a more
// specific code than the generic Duplicate so clients can key off it.
func DuplicateEmail(message string) *AppError {
	return New(http.StatusConflict, CodeDuplicateEmail, message, nil)
}

// Business wraps a downstream persistence failure with user-facing context.
func Business(message string, err error) *AppError {
	return New(http.StatusUnprocessableEntity, CodeBusiness, message, err)
}

func FileUpload(message string, err error) *AppError {
	return New(http.StatusBadRequest, CodeFileUpload, message, err)
}

func FileTooLarge(message string) *AppError {
	return New(http.StatusBadRequest, CodeFileTooLarge, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, CodeInternal, "Internal Server Error", err)
}
