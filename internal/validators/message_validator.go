package validators

import (
	"campuschat/internal/errs"
	"campuschat/internal/models"
)

// ValidateMessage enforces the write-time rules on a new message: a
// message must carry a body or at least one attachment, and both ends
// of the conversation must be real user ids.
func ValidateMessage(message *models.Message) []error {
	var errors []error
	if message == nil {
		errors = append(errors, errs.ErrInvalidRequest)
		return errors
	}

	if message.SenderID == 0 {
		errors = append(errors, errs.ErrInvalidUserId)
	}

	if message.ReceiverID == 0 {
		errors = append(errors, errs.ErrInvalidReceiverId)
	}

	if message.Content == "" && len(message.Files) == 0 {
		errors = append(errors, errs.ErrEmptyMessage)
	}

	return errors
}
