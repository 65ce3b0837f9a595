package adaptors

import "context"

// WebClient issues a single HTTP request and reports the final status code
// after redirects, or a transport error.
type WebClient interface {
	Do(ctx context.Context, url string, method string) (int, error)
}
