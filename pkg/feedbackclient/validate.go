package feedbackclient

import (
	"errors"
	"regexp"
	"strings"

	"github.com/NomadCrew/feedback-service/types"
)

var (
	ErrMissingFields = errors.New("all fields are required")
	ErrInvalidEmail  = errors.New("please enter a valid email")
)

// clientEmailPattern is looser than the server's check; it only catches
// obvious typos before a round trip.
var clientEmailPattern = regexp.MustCompile(`.+@.+\..+`)

// ValidateSubmission reports whether in is worth sending.
func ValidateSubmission(in types.FeedbackCreate) error {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.Message) == "" {
		return ErrMissingFields
	}
	if !clientEmailPattern.MatchString(in.Email) {
		return ErrInvalidEmail
	}
	return nil
}
