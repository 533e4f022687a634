// Package upstream talks to the vision-capable language models that read the
// plan images. Every client issues exactly one request per call; there are no
// retries.
package upstream

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
)

// Image is the inline image sent with a request.
type Image struct {
	Data      []byte
	MediaType string
}

// DataURL encodes the image as a base64 data URL tagged with its media type.
func (i Image) DataURL() string {
	return "data:" + i.MediaType + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Request is one extraction call.
type Request struct {
	Model       string
	Temperature float32
	System      string
	User        string
	Image       Image
	// Schema, when non-nil, constrains the reply to a JSON schema named SchemaName.
	Schema     map[string]any
	SchemaName string
}

// Reply is the model's textual answer.
type Reply struct {
	Text string
}

// Client is a vision model API.
type Client interface {
	Name() string
	// Configured reports whether a credential is present. Callers check it
	// before Complete so that a missing key never reaches the network.
	Configured() bool
	Complete(ctx context.Context, req Request) (Reply, error)
}

// ErrMissingCredential is returned when the API key is not configured.
var ErrMissingCredential = errors.New("upstream API key not configured")

// IsMissingCredential reports whether err is ErrMissingCredential.
func IsMissingCredential(err error) bool { return errors.Is(err, ErrMissingCredential) }

// Error is a non-success reply from the provider. Body is kept verbatim.
type Error struct {
	Provider string
	Status   int
	Body     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Provider, e.Status, e.Body)
}

// StatusCode maps every provider failure to 502 Bad Gateway.
func (e *Error) StatusCode() int { return http.StatusBadGateway }

// AsError unwraps an *Error from err.
func AsError(err error) (*Error, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
