package errs

import "net/http"

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody       = Error("invalid request body")
	ErrInvalidRequest           = Error("invalid request")
	ErrInvalidParams            = Error("invalid params")
	ErrInvalidUserId            = Error("invalid user id")
	ErrInvalidReceiverId        = Error("invalid receiver id")
	ErrEmptyMessage             = Error("message needs a body or at least one attachment")
	ErrInvalidEmail             = Error("invalid email")
	ErrInvalidPassword          = Error("invalid password")
	ErrInvalidPageOrSize        = Error("invalid page or size")
	ErrUserNotFound             = Error("user not found")
	ErrSenderNotFound           = Error("sender not found")
	ErrReceiverNotFound         = Error("receiver not found")
	ErrMessageNotFound          = Error("message not found")
	ErrWrongPassword            = Error("wrong password")
	ErrUnauthorized             = Error("unauthorized")
	ErrStorageUnavailable       = Error("storage unavailable")
	ErrPushFailed               = Error("push to live connection failed")
	ErrNoFileUploaded           = Error("no file uploaded")
	ErrUnableToUploadFile       = Error("unable to upload file")
	ErrUnableToOpenUploadedFile = Error("unable to open uploaded file")
)

// Validation and not-found errors map to client errors; everything else
// is treated as a persistence failure. Delivery failures never reach
// the REST layer at all, they are logged and dropped at the dispatcher.
var (
	validation = map[Error]struct{}{
		ErrInvalidRequestBody: {},
		ErrInvalidRequest:     {},
		ErrInvalidParams:      {},
		ErrInvalidUserId:      {},
		ErrInvalidReceiverId:  {},
		ErrEmptyMessage:       {},
		ErrInvalidEmail:       {},
		ErrInvalidPassword:    {},
		ErrInvalidPageOrSize:  {},
		ErrNoFileUploaded:     {},
	}
	notFound = map[Error]struct{}{
		ErrUserNotFound:     {},
		ErrSenderNotFound:   {},
		ErrReceiverNotFound: {},
		ErrMessageNotFound:  {},
	}
)

func IsValidation(err error) bool {
	e, ok := err.(Error)
	if !ok {
		return false
	}
	_, ok = validation[e]
	return ok
}

func IsNotFound(err error) bool {
	e, ok := err.(Error)
	if !ok {
		return false
	}
	_, ok = notFound[e]
	return ok
}

// HTTPStatus maps an error to the status code the REST layer responds with.
func HTTPStatus(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case err == ErrUnauthorized || err == ErrWrongPassword:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatusAll picks the status for a multi-error result the way the
// handlers report them: the first error decides.
func HTTPStatusAll(errors []error) int {
	if len(errors) == 0 {
		return http.StatusOK
	}
	return HTTPStatus(errors[0])
}
