package api

import "net/http"

// Authorizer decides whether a mutating request may proceed. The core
// does not implement credential checking itself; deployments inject
// whatever scheme the site uses (static tokens, a reverse proxy header,
// mTLS metadata).
//
// Authorize returns nil to allow the request. Any error denies it with
// a 401 response; the error message is not exposed to the client.
type Authorizer interface {
	Authorize(r *http.Request) error
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(r *http.Request) error

// Authorize calls f(r).
func (f AuthorizerFunc) Authorize(r *http.Request) error {
	return f(r)
}
