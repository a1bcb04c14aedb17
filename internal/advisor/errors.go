package advisor

import (
	"errors"
	"strings"

	"github.com/theirongolddev/cplan/internal/gemini"
)

// RemediationMessage is shown when the remote service rejects the API key.
const RemediationMessage = "It looks like the API key is not valid or not selected. Please select your API key again."

// entityNotFound is the message the hosted key selector produces for a
// missing or revoked key. No structured code accompanies it.
const entityNotFound = "Requested entity was not found."

var (
	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("advisor: model returned an empty response")
	// ErrUnknown indicates a failure that carried no message at all.
	ErrUnknown = errors.New("advisor: an unknown error occurred while getting guidance")
)

// ConfigurationError means no API key is available. It is returned before
// any network call is attempted.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "advisor: " + e.Reason
}

// CredentialInvalidError means the remote service did not recognize the key.
// Callers should drop any cached "key selected" state and prompt again.
type CredentialInvalidError struct {
	Cause error
}

func (e *CredentialInvalidError) Error() string { return RemediationMessage }

func (e *CredentialInvalidError) Unwrap() error { return e.Cause }

// GuidanceFailure wraps any other remote or transport error.
type GuidanceFailure struct {
	Cause error
}

func (e *GuidanceFailure) Error() string {
	return "failed to get guidance: " + e.Cause.Error()
}

func (e *GuidanceFailure) Unwrap() error { return e.Cause }

// classify maps a generator error onto the advisor error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if strings.TrimSpace(err.Error()) == "" {
		return ErrUnknown
	}
	if errors.Is(err, gemini.ErrNoCandidates) {
		return ErrEmptyResponse
	}
	if isCredentialRejected(err) {
		return &CredentialInvalidError{Cause: err}
	}
	return &GuidanceFailure{Cause: err}
}

// isCredentialRejected matches the hosted selector's message and, when the
// transport gives us one, the typed API error for a bad key.
func isCredentialRejected(err error) bool {
	if strings.Contains(err.Error(), entityNotFound) {
		return true
	}
	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HasReason("API_KEY_INVALID") {
			return true
		}
		return apiErr.HTTPStatus == 401 || apiErr.HTTPStatus == 403
	}
	return false
}
