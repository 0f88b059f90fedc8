package workflow

import (
	"errors"

	"github.com/xrsl/cvlift/pkg/form"
	"github.com/xrsl/cvlift/pkg/notify"
)

const titleProcessing = "Processing"

// Notification converts a submission error into what the user sees.
func Notification(err error) notify.Notification {
	switch {
	case errors.Is(err, form.ErrMissingLink):
		return notify.Alert("Missing Link", "Please paste your Google Docs link.")
	case errors.Is(err, form.ErrInvalidLink):
		return notify.Alert("Invalid Link", "Please enter a valid Google Docs link.")
	case errors.Is(err, form.ErrMissingSelection):
		return notify.Alert("Improvement Type Required", "Please select or write how you'd like to improve your resume.")
	case errors.Is(err, form.ErrBusy):
		return notify.Alert("Already Processing", "Your resume is still being improved. Please wait for it to finish.")
	default:
		return notify.Alert("Processing Failed", "There was an error improving your resume. Please try again.")
	}
}

// SuccessNotification is emitted when every phase completed.
func SuccessNotification() notify.Notification {
	return notify.Info("Resume Updated Successfully!", "Your Google Doc has been enhanced. Refresh it to see the changes.")
}
