package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsearch/internal/auth"
	"github.com/desertthunder/spotsearch/internal/models"
	"github.com/desertthunder/spotsearch/internal/results"
	"github.com/desertthunder/spotsearch/internal/services"
	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/desertthunder/spotsearch/internal/ui"
)

// Status strings shown to the user.
const (
	StatusLoginRequired   = "Please log in with Spotify first."
	StatusMissingVerifier = "Missing code_verifier. Try logging in again."
	StatusLoggedIn        = "Logged in!"
	StatusLoggedOut       = "(Not logged in)"
)

// Options configures a [Controller].
type Options struct {
	Auth      *auth.Authenticator
	Searcher  services.Searcher
	Results   *results.Set
	Presenter ui.Presenter
	// History is optional; searches are not recorded when nil.
	History       models.Repository[*models.SearchRecord]
	FallbackImage string
	Logger        *log.Logger
}

// Controller implements the user-facing operations: login, callback, logout and search.
type Controller struct {
	auth      *auth.Authenticator
	searcher  services.Searcher
	results   *results.Set
	presenter ui.Presenter
	history   models.Repository[*models.SearchRecord]
	fallback  string
	logger    *log.Logger
}

// New validates opts and builds a [Controller].
func New(opts Options) (*Controller, error) {
	if opts.Auth == nil || opts.Searcher == nil || opts.Presenter == nil {
		return nil, fmt.Errorf("%w: auth, searcher and presenter are required", shared.ErrMissingConfig)
	}

	set := opts.Results
	if set == nil {
		set = results.NewSet()
	}
	fallback := opts.FallbackImage
	if fallback == "" {
		fallback = results.DefaultFallbackImage
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Controller{
		auth:      opts.Auth,
		searcher:  opts.Searcher,
		results:   set,
		presenter: opts.Presenter,
		history:   opts.History,
		fallback:  fallback,
		logger:    logger,
	}, nil
}

// Init restores a persisted token, then handles callback if it carries a redirect. It reports
// whether callback was a redirect.
func (c *Controller) Init(ctx context.Context, callback url.Values) (bool, error) {
	if restored, err := c.auth.Restore(ctx); err != nil {
		c.logger.Warn("failed to restore token", "error", err)
	} else if restored {
		c.logger.Debug("restored persisted token")
	}

	if len(callback) == 0 {
		return false, nil
	}
	return c.Callback(ctx, callback)
}

// Login starts the PKCE flow and returns the URL the user must open.
func (c *Controller) Login(ctx context.Context) (string, error) {
	authURL, err := c.auth.BeginLogin(ctx)
	if err != nil {
		c.presenter.Status(fmt.Sprintf("Login failed: %v", err))
		return "", err
	}
	return authURL, nil
}

// Callback completes a login from the redirect query. It reports whether the query was a callback.
func (c *Controller) Callback(ctx context.Context, query url.Values) (bool, error) {
	handled, err := c.auth.CompleteLogin(ctx, query)
	if !handled {
		return false, err
	}

	if err != nil {
		c.presenter.Status(loginStatus(err))
		return true, err
	}

	c.presenter.Status(StatusLoggedIn)
	return true, nil
}

func loginStatus(err error) string {
	var authErr *auth.AuthorizationError
	var exErr *auth.ExchangeError
	switch {
	case errors.As(err, &authErr):
		return fmt.Sprintf("Error from Spotify: %s", authErr.Reason)
	case errors.Is(err, shared.ErrMissingVerifier):
		return StatusMissingVerifier
	case errors.As(err, &exErr):
		return fmt.Sprintf("Token request failed: %d\n%s", exErr.StatusCode, exErr.Body)
	default:
		return fmt.Sprintf("Token request failed: %v", err)
	}
}

// Logout forgets the token in memory and in the store, and drops the visible results.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.auth.Logout(ctx); err != nil {
		c.presenter.Status(fmt.Sprintf("Logout failed: %v", err))
		return err
	}
	c.results.Reset()
	c.presenter.Clear()
	c.presenter.Status(StatusLoggedOut)
	return nil
}

// Search runs one search and presents the outcome. A blank query does nothing.
func (c *Controller) Search(ctx context.Context, kind models.Kind, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown search type %q", shared.ErrInvalidArgument, kind)
	}

	if !c.auth.Session().LoggedIn() {
		c.presenter.Status(StatusLoginRequired)
		return shared.ErrNotAuthenticated
	}

	ticket := c.results.Begin()
	c.presenter.Status(fmt.Sprintf("Searching %s...", kind.Plural()))

	raw, err := c.searcher.Search(ctx, kind, query)
	if err != nil {
		if !c.results.Latest(ticket) {
			c.logger.Debug("dropping error from superseded search", "type", kind, "query", query, "error", err)
			return nil
		}
		c.presenter.Status(searchStatus(kind, err))
		return err
	}

	items := results.Normalize(kind, raw, c.fallback)
	if !c.results.Apply(ticket, kind, items) {
		c.logger.Debug("dropping superseded results", "type", kind, "query", query)
		return nil
	}

	c.presenter.Render(kind, items)
	c.logger.Debug("Current results", "type", kind, "count", len(items))
	c.record(kind, query, len(items))
	return nil
}

func searchStatus(kind models.Kind, err error) string {
	var apiErr *services.APIError
	var netErr *services.NetworkError
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf("%s search error: %d %s", kind.Label(), apiErr.StatusCode, apiErr.StatusText)
	case errors.As(err, &netErr):
		return fmt.Sprintf("Network error (%s): %v", kind.Plural(), netErr.Err)
	case errors.Is(err, shared.ErrNotAuthenticated):
		return StatusLoginRequired
	default:
		return fmt.Sprintf("Network error (%s): %v", kind.Plural(), err)
	}
}

func (c *Controller) record(kind models.Kind, query string, n int) {
	if c.history == nil {
		return
	}
	if err := c.history.Create(models.NewSearchRecord(kind, query, n)); err != nil {
		c.logger.Warn("failed to record search", "error", err)
	}
}

// Results returns a copy of the current result set.
func (c *Controller) Results() results.Snapshot {
	return c.results.Snapshot()
}

// Session exposes the login state.
func (c *Controller) Session() *auth.Session {
	return c.auth.Session()
}

// Controls reports which actions the user may take. Search stays available while logged out so the
// user is told to log in.
func (c *Controller) Controls() ui.Controls {
	loggedIn := c.auth.Session().LoggedIn()
	return ui.Controls{
		LoginEnabled:  !loggedIn,
		LogoutEnabled: loggedIn,
		SearchEnabled: true,
	}
}
