package httpx

import "net/http"

// Client is the outbound HTTP seam. Implementations must honour the request
// context for cancellation and deadlines.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}
