package errs

import "errors"

// Error kinds shared by every layer. Domain packages declare their own
// sentinels and Mark them with one of these so handlers can map a kind
// to a transport status without knowing the concrete error.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrValidationFailed  = errors.New("validation failed")
	ErrLimitExceeded     = errors.New("limit exceeded")
	ErrMinimumNotMet     = errors.New("minimum not met")
	ErrAlreadyCompleted  = errors.New("already completed")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrExternalService   = errors.New("external service error")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")

	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

// Kind returns the name of the first kind err is marked with, or "" when none matches.
func Kind(err error) string {
	for _, k := range kinds {
		if Is(err, k.err) {
			return k.name
		}
	}
	return ""
}

var kinds = []struct {
	name string
	err  error
}{
	{"NOT_FOUND", ErrNotFound},
	{"INVALID_STATE", ErrInvalidState},
	{"VALIDATION_FAILED", ErrValidationFailed},
	{"LIMIT_EXCEEDED", ErrLimitExceeded},
	{"MINIMUM_NOT_MET", ErrMinimumNotMet},
	{"ALREADY_COMPLETED", ErrAlreadyCompleted},
	{"SIGNATURE_MISMATCH", ErrSignatureMismatch},
	{"EXTERNAL_SERVICE_ERROR", ErrExternalService},
	{"INVALID_ROLE", ErrInvalidRole},
	{"INVALID_STATUS", ErrInvalidStatus},
	{"UNAUTHORIZED", ErrUnauthorized},
	{"FORBIDDEN", ErrForbidden},
	{"CONFLICT", ErrConflict},
}
