// Package app wires the session, search gateway, result set and presenter into one [Controller].
//
// The controller owns every user-visible status string. On start it restores a persisted token before handling a
// redirect callback, so a failed callback never hides an existing login.
//
// Each search takes a ticket from the result set before the request goes out. A response that arrives after a newer
// search has started is dropped, and so is its error.
package app
