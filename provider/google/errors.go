package google

import (
	"errors"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/webagent"
)

// wrapError categorizes a Google GenAI error by status code so the retry
// layer can tell transient failures from permanent ones. The GenAI error
// does not expose headers, so Retry-After is unavailable.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		// Likely a network error; the retry heuristics handle those.
		return err
	}

	code := apiErr.Code
	msg := err.Error()
	if isTransientStatus(code) {
		return ai.NewTransientError(msg, code, err)
	}
	return ai.NewPermanentError(msg, code, err)
}

// isTransientStatus reports whether an HTTP status code is worth retrying:
// rate limits and server errors are, everything else is not.
func isTransientStatus(code int) bool {
	return code == 429 || (code >= 500 && code < 600)
}
