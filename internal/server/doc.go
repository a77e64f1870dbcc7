// Package server provides HTTP routing, middleware, and the OAuth redirect receiver used during login.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Callback Receiver
//
// [CallbackHandler] captures the query string of the Spotify redirect and sends it through a channel.
// It does not exchange the code; the PKCE verifier lives with the authenticator.
//
// It only processes one callback to prevent replay. Requests without code or error are rejected and do not count.
//
// [CallbackServer] starts a temporary server on the configured host:port (127.0.0.1:3000 by default), waits up to two
// minutes for the redirect and shuts down.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
