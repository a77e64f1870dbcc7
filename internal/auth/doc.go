// Package auth implements the Spotify Authorization Code + PKCE login for a public client.
//
// # Session
//
// A [Session] holds the access token in memory and tracks the login [State]:
//
//	LoggedOut -> AwaitingRedirect -> LoggedIn -> LoggedOut
//
// There is no token refresh or expiry detection. A stale token surfaces as an ordinary API error from the search gateway.
//
// # Flow
//
// [Authenticator.BeginLogin] generates a PKCE pair, persists the verifier in the [store.Store] and returns the
// authorize URL. The caller opens it in a browser. Spotify redirects back with either ?code= or ?error=, and
// [Authenticator.CompleteLogin] exchanges the code for a token using the persisted verifier.
//
// No client secret is sent; the client_id travels in the form body ([oauth2.AuthStyleInParams]).
package auth
