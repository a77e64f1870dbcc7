package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsearch/internal/auth"
	"github.com/desertthunder/spotsearch/internal/models"
	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/desertthunder/spotsearch/internal/store"
	tu "github.com/desertthunder/spotsearch/internal/testing"
)

// loggedInSession returns a session holding token, or a logged out one when token is empty.
func loggedInSession(t *testing.T, token string) *auth.Session {
	t.Helper()
	a, err := auth.NewAuthenticator(auth.AuthOptions{
		ClientID:    "client",
		RedirectURI: "http://127.0.0.1:3000/callback",
		Store:       store.NewMemoryStore(),
		Logger:      log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("failed to create authenticator: %v", err)
	}
	if token != "" {
		if err := a.SetToken(context.Background(), token); err != nil {
			t.Fatalf("failed to set token: %v", err)
		}
	}
	return a.Session()
}

func newTestService(t *testing.T, session *auth.Session, baseURL string, limit int) *SpotifyService {
	t.Helper()
	srv, err := NewSpotifyService(SpotifyOptions{
		Session: session,
		BaseURL: baseURL,
		Limit:   limit,
		Logger:  log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return srv
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("Missing Session", func(t *testing.T) {
		_, err := NewSpotifyService(SpotifyOptions{})
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		srv := newTestService(t, auth.NewSession(), "", 0)
		if srv.baseURL != DefaultBaseURL {
			t.Errorf("expected default base URL, got %s", srv.baseURL)
		}
		if srv.Limit() != DefaultSearchLimit {
			t.Errorf("expected limit %d, got %d", DefaultSearchLimit, srv.Limit())
		}
		if srv.Name() != "Spotify" {
			t.Errorf("expected service name 'Spotify', got %s", srv.Name())
		}
	})

	t.Run("Out Of Range Limit", func(t *testing.T) {
		srv := newTestService(t, auth.NewSession(), "", 51)
		if srv.Limit() != DefaultSearchLimit {
			t.Errorf("expected limit to fall back to %d, got %d", DefaultSearchLimit, srv.Limit())
		}
	})

	t.Run("WithLimit", func(t *testing.T) {
		srv := newTestService(t, auth.NewSession(), "", 25)
		if got := srv.WithLimit(10).Limit(); got != 10 {
			t.Errorf("expected 10, got %d", got)
		}
		if got := srv.WithLimit(0).Limit(); got != 25 {
			t.Errorf("expected invalid limit to be ignored, got %d", got)
		}
		if srv.Limit() != 25 {
			t.Error("WithLimit should not modify the receiver")
		}
	})
}

func TestSearchURL(t *testing.T) {
	srv := newTestService(t, auth.NewSession(), "https://api.spotify.com/v1/", 10)
	for query, want := range map[string]string{
		"love & war": "https://api.spotify.com/v1/search?type=track&q=love%20%26%20war&limit=10",
		"love song":  "https://api.spotify.com/v1/search?type=track&q=love%20song&limit=10",
		"a+b=c":      "https://api.spotify.com/v1/search?type=track&q=a%2Bb%3Dc&limit=10",
	} {
		if got := srv.SearchURL(models.KindTrack, query); got != want {
			t.Errorf("SearchURL(%q) = %s, want %s", query, got, want)
		}
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Not Logged In", func(t *testing.T) {
		var hits atomic.Int32
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer api.Close()

		srv := newTestService(t, loggedInSession(t, ""), api.URL, 25)
		_, err := srv.Search(ctx, models.KindTrack, "love")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if hits.Load() != 0 {
			t.Error("no request should be made while logged out")
		}
	})

	t.Run("Success", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/search" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("type") != "album" || q.Get("q") != "blue" || q.Get("limit") != "25" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			if r.URL.RawQuery != "type=album&q=blue&limit=25" {
				t.Errorf("unexpected raw query %s", r.URL.RawQuery)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Errorf("unexpected Authorization header %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"albums":{"items":[]}}`)
		}))
		defer api.Close()

		srv := newTestService(t, loggedInSession(t, "tok-1"), api.URL+"/v1", 25)
		body, err := srv.Search(ctx, models.KindAlbum, "blue")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != `{"albums":{"items":[]}}` {
			t.Errorf("body should be returned untouched, got %s", body)
		}
	})

	t.Run("API Error", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":{"status":401,"message":"The access token expired"}}`)
		}))
		defer api.Close()

		srv := newTestService(t, loggedInSession(t, "stale"), api.URL, 25)
		_, err := srv.Search(ctx, models.KindTrack, "love")

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != 401 || apiErr.StatusText != "Unauthorized" {
			t.Errorf("unexpected error fields %+v", apiErr)
		}
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Error("APIError should unwrap to ErrAPIRequest")
		}
		if errors.Is(err, shared.ErrServiceUnavailable) {
			t.Error("a 401 is not an outage")
		}
	})

	t.Run("Service Unavailable", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer api.Close()

		srv := newTestService(t, loggedInSession(t, "tok"), api.URL, 25)
		_, err := srv.Search(ctx, models.KindTrack, "love")
		if !errors.Is(err, shared.ErrServiceUnavailable) || !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected an unavailable API error, got %v", err)
		}
	})

	t.Run("Network Error", func(t *testing.T) {
		api := httptest.NewServer(http.NotFoundHandler())
		baseURL := api.URL
		api.Close()

		srv := newTestService(t, loggedInSession(t, "tok"), baseURL, 25)
		_, err := srv.Search(ctx, models.KindPlaylist, "chill")
		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("Body Read Failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Status: "200 OK", Header: http.Header{}, Body: &tu.FCloser{}}
		srv, err := NewSpotifyService(SpotifyOptions{
			Session:    loggedInSession(t, "tok"),
			HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)},
			BaseURL:    "http://api.invalid",
			Logger:     log.New(io.Discard),
		})
		if err != nil {
			t.Fatal(err)
		}

		_, err = srv.Search(ctx, models.KindAlbum, "blue")
		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
		var netErr *NetworkError
		if !errors.As(err, &netErr) || !strings.Contains(netErr.Error(), "read failed") {
			t.Errorf("expected the read failure to be kept, got %v", err)
		}
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "<html>not json</html>")
		}))
		defer api.Close()

		srv := newTestService(t, loggedInSession(t, "tok"), api.URL, 25)
		_, err := srv.Search(ctx, models.KindTrack, "love")
		if !errors.Is(err, shared.ErrInvalidResponse) {
			t.Errorf("expected ErrInvalidResponse, got %v", err)
		}
	})

	t.Run("Invalid Kind", func(t *testing.T) {
		srv := newTestService(t, loggedInSession(t, "tok"), "http://unused.invalid", 25)
		_, err := srv.Search(ctx, models.Kind("artist"), "x")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestUserProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Not Logged In", func(t *testing.T) {
		srv := newTestService(t, loggedInSession(t, ""), "http://unused.invalid", 25)
		if _, err := srv.UserProfile(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Success", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if !strings.HasSuffix(r.Header.Get("Authorization"), "tok-me") {
				t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"id":"u1","display_name":"Test User","email":"test@example.com","country":"US","product":"premium","followers":{"total":7}}`)
		}))
		defer api.Close()

		srv := newTestService(t, loggedInSession(t, "tok-me"), api.URL, 25)
		profile, err := srv.UserProfile(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.ID != "u1" || profile.DisplayName != "Test User" || profile.Email != "test@example.com" {
			t.Errorf("unexpected profile %+v", profile)
		}
		if profile.Followers != 7 || profile.Product != "premium" {
			t.Errorf("unexpected profile %+v", profile)
		}
	})

	t.Run("API Error", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":{"status":401,"message":"Invalid access token"}}`)
		}))
		defer api.Close()

		srv := newTestService(t, loggedInSession(t, "bad"), api.URL, 25)
		_, err := srv.UserProfile(ctx)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 APIError, got %v", err)
		}
	})
}
