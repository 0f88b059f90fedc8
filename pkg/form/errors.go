package form

import "errors"

var (
	ErrMissingLink      = errors.New("missing document link")
	ErrInvalidLink      = errors.New("invalid google docs link")
	ErrMissingSelection = errors.New("missing improvement type")
	ErrBusy             = errors.New("form is processing")
	ErrNotProcessing    = errors.New("form is not processing")
	ErrProgressRegress  = errors.New("progress cannot decrease")
)

// IsValidation reports whether err is one of the input validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingLink) ||
		errors.Is(err, ErrInvalidLink) ||
		errors.Is(err, ErrMissingSelection)
}
