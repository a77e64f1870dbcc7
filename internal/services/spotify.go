// Spotify Web API implementation of [Searcher] and [ProfileProvider]
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsearch/internal/auth"
	"github.com/desertthunder/spotsearch/internal/models"
	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/tidwall/gjson"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL     = "https://api.spotify.com/v1"
	DefaultSearchLimit = 25
)

// APIError is a non-success response from the Web API.
type APIError struct {
	StatusCode int
	StatusText string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify API error: %d %s", e.StatusCode, e.StatusText)
}

// Unwrap reports 5xx responses as [shared.ErrServiceUnavailable] as well.
func (e *APIError) Unwrap() []error {
	if e.StatusCode >= http.StatusInternalServerError {
		return []error{shared.ErrAPIRequest, shared.ErrServiceUnavailable}
	}
	return []error{shared.ErrAPIRequest}
}

// NetworkError is a request that never received a response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%v: %v", shared.ErrNetwork, e.Err)
}

func (e *NetworkError) Unwrap() []error { return []error{shared.ErrNetwork, e.Err} }

// SpotifyOptions configures a [SpotifyService].
type SpotifyOptions struct {
	Session    *auth.Session
	HTTPClient *http.Client
	BaseURL    string
	Limit      int
	Logger     *log.Logger
}

// SpotifyService reads the bearer token from a shared [auth.Session] on every call.
type SpotifyService struct {
	session    *auth.Session
	httpClient *http.Client
	baseURL    string
	limit      int
	logger     *log.Logger
}

// NewSpotifyService creates a service bound to opts.Session.
func NewSpotifyService(opts SpotifyOptions) (*SpotifyService, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("%w: session is required", shared.ErrMissingConfig)
	}

	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: base_url: %v", shared.ErrInvalidConfig, err)
	}

	limit := opts.Limit
	if limit < shared.MinSearchLimit || limit > shared.MaxSearchLimit {
		limit = DefaultSearchLimit
	}

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &SpotifyService{
		session:    opts.Session,
		httpClient: client,
		baseURL:    baseURL,
		limit:      limit,
		logger:     logger,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Limit is the page size sent with every search.
func (s *SpotifyService) Limit() int { return s.limit }

// WithLimit returns a copy of s that searches with limit, ignoring values outside 1..50.
func (s *SpotifyService) WithLimit(limit int) *SpotifyService {
	c := *s
	if limit >= shared.MinSearchLimit && limit <= shared.MaxSearchLimit {
		c.limit = limit
	}
	return &c
}

// SearchURL builds the request URL for a search. Parameters go out in type, q, limit order with
// spaces as %20.
func (s *SpotifyService) SearchURL(kind models.Kind, query string) string {
	return fmt.Sprintf("%s/search?type=%s&q=%s&limit=%d", s.baseURL, queryEscape(kind.String()), queryEscape(query), s.limit)
}

func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Search runs one catalog search for kind.
func (s *SpotifyService) Search(ctx context.Context, kind models.Kind, query string) ([]byte, error) {
	token := s.session.Token()
	if !s.session.LoggedIn() || token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown search type %q", shared.ErrInvalidArgument, kind)
	}

	reqID := shared.GenerateID()
	logger := s.logger.With("request_id", reqID, "type", kind, "query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.SearchURL(kind, query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	logger.Debug("searching", "limit", s.limit)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Debug("search request failed", "error", err)
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Debug("search rejected", "status", resp.StatusCode)
		return nil, &APIError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: search response is not JSON", shared.ErrInvalidResponse)
	}

	logger.Debug("search complete", "bytes", len(body))
	return body, nil
}

// UserProfile retrieves the current authenticated user's profile.
func (s *SpotifyService) UserProfile(ctx context.Context) (*Profile, error) {
	token := s.session.Token()
	if !s.session.LoggedIn() || token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	client := spotify.New(httpClient, spotify.WithBaseURL(s.baseURL+"/"))

	user, err := client.CurrentUser(ctx)
	if err != nil {
		var sErr spotify.Error
		if errors.As(err, &sErr) {
			return nil, &APIError{StatusCode: sErr.Status, StatusText: http.StatusText(sErr.Status)}
		}
		var uErr *url.Error
		if errors.As(err, &uErr) {
			return nil, networkError(err)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return &Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Country:     user.Country,
		Product:     user.Product,
		Followers:   user.Followers.Count,
	}, nil
}

// statusText prefers the reason phrase the server sent over the canonical one.
func statusText(resp *http.Response) string {
	if text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func networkError(err error) error {
	var uErr *url.Error
	if errors.As(err, &uErr) {
		err = uErr.Err
	}
	return &NetworkError{Err: err}
}
