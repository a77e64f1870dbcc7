package server

import (
	"fmt"
	"html"
	"net/http"
	"net/url"
	"sync"
)

// CallbackHandler captures the query of the first OAuth redirect that carries a code or an error.
// The code is not exchanged here; that is the controller's job.
//
// Implements the Handler interface for registration with a Router.
type CallbackHandler struct {
	path       string
	resultChan chan url.Values
	mu         sync.Mutex
	sent       bool
}

// NewCallbackHandler creates a handler serving path (usually "/callback").
func NewCallbackHandler(path string) *CallbackHandler {
	if path == "" {
		path = "/callback"
	}
	return &CallbackHandler{
		path:       path,
		resultChan: make(chan url.Values, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP handles the OAuth callback request.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code, reason := query.Get("code"), query.Get("error")
	if code == "" && reason == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	if !h.Send(query) {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	if reason != "" {
		writePage(w, http.StatusBadRequest, "Authorization Failed", "Spotify reported: "+reason)
		return
	}
	writePage(w, http.StatusOK, "✓ Authorization Received", "You can close this window and return to the terminal.")
}

// Send delivers query on the result channel and closes it. Only the first call is delivered; it
// reports whether query was the one accepted.
func (h *CallbackHandler) Send(query url.Values) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sent {
		return false
	}
	h.sent = true
	h.resultChan <- query
	close(h.resultChan)
	return true
}

// Result returns the result channel for receiving the redirect query.
//
// Channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan url.Values {
	return h.resultChan
}

func writePage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>%[1]s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%[1]s</h1>
        <p>%[2]s</p>
    </div>
</body>
</html>
`, html.EscapeString(title), html.EscapeString(message))
}
