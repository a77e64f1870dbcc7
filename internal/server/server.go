// package server contains middleware & handlers for the local OAuth callback receiver
package server

import (
	"net/http"
)

// Middleware decorates an [http.Handler]; the callback server stacks [Recover] and [Logging].
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows its own paths.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers behind a shared middleware stack.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

var _ Router = (*BasicRouter)(nil)
