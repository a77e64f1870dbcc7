// Package services talks to the Spotify Web API on behalf of a logged in [auth.Session].
//
// # Search Gateway
//
// [SpotifyService.Search] issues GET /search?type={kind}&q={query}&limit={n} with a bearer token and returns
// the body as raw JSON. The shape of that body belongs to Spotify; normalizing it is left to the results package,
// which has to cope with missing and null fields.
//
// # Profile
//
// [SpotifyService.UserProfile] goes through the zmb3/spotify client, which already models /me.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : no token in the session, no request was sent
//   - [APIError] : non-2xx status, wraps [shared.ErrAPIRequest]
//   - [NetworkError] : the request never got a response, wraps [shared.ErrNetwork]
//   - [shared.ErrInvalidResponse] : the body was not JSON
//
// Nothing is retried.
package services
