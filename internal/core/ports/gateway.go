package ports

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/retailflow/plm-console/internal/core/domain"
)

// Request describes one outbound call to the PLM API.
type Request struct {
	// Op is a short logical name used for metrics and logs (e.g. "list_products").
	Op     string
	Method string
	Path   string
	// Header values override the gateway defaults.
	Header map[string]string
	// Body is serialized as JSON when non-nil.
	Body any
	// Credentials, when set, become a Basic Authorization header.
	Credentials *domain.Credentials
}

// Response is a successful (2xx) API response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsJSON reports whether the response declares a JSON content type.
func (r *Response) IsJSON() bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Gateway performs a single attempt per call. Non-2xx responses fail with
// *domain.RequestError, transport failures with *domain.NetworkError.
type Gateway interface {
	Call(ctx context.Context, req Request) (*Response, error)
}
