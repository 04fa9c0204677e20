package llm

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrNoResponseBody reports a response that arrived without a body to
// stream from. This is a transport failure, not a vendor error.
var ErrNoResponseBody = errors.New("no response body")

// errorEnvelope is the error body shape shared by every supported vendor.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CheckResponse validates a streaming response before decoding begins.
// Non-2xx responses are drained for the vendor's error message and turned
// into an APIError; the body is closed on failure.
func CheckResponse(provider string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if resp.Body == nil {
			return ErrNoResponseBody
		}
		return nil
	}

	var vendorMsg string
	if resp.Body != nil {
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err == nil {
			var env errorEnvelope
			if json.Unmarshal(body, &env) == nil {
				vendorMsg = env.Error.Message
			}
		}
	}
	return NewAPIError(provider, resp.StatusCode, vendorMsg)
}
