package server

import (
	"net/http"
	"strings"
)

// BasicRouter is a small [Router] over [http.ServeMux] method patterns ("GET /callback").
//
// Every request, including ones that match no route, passes through the middleware stack so that
// stray browser requests such as /favicon.ico still show up in the debug log.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware. The first one added is the outermost.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method and path. Other methods on path get 405 from the mux.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(pattern(method, path), handler)
}

// Handler registers h for each of its routes. OAuth redirects are plain GETs, so only GET (and HEAD) match.
func (r *BasicRouter) Handler(h Handler) {
	for _, route := range h.Routes() {
		r.Handle(http.MethodGet, route, h)
	}
}

// ServeHTTP runs the middleware stack around the mux.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Apply(r.mux).ServeHTTP(w, req)
}

// Apply wraps handler so that the first registered middleware runs first.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}
	return handler
}

func pattern(method, path string) string {
	if method == "" {
		return path
	}
	return strings.ToUpper(method) + " " + path
}
