package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsearch/internal/pkce"
	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/desertthunder/spotsearch/internal/store"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// DefaultScopes are requested when [AuthOptions.Scopes] is empty.
var DefaultScopes = []string{spotifyauth.ScopeUserReadEmail, spotifyauth.ScopeUserReadPrivate}

// AuthOptions configures an [Authenticator].
type AuthOptions struct {
	ClientID    string
	RedirectURI string
	Scopes      []string

	// AuthURL and TokenURL default to the Spotify accounts service.
	AuthURL  string
	TokenURL string

	Store      store.Store
	Session    *Session
	HTTPClient *http.Client
	Logger     *log.Logger

	// VerifierLength defaults to [pkce.DefaultVerifierLength].
	VerifierLength int
}

// Authenticator drives the PKCE login against the Spotify accounts service.
type Authenticator struct {
	config         *oauth2.Config
	store          store.Store
	session        *Session
	httpClient     *http.Client
	logger         *log.Logger
	verifierLength int
}

// NewAuthenticator validates opts and fills in defaults.
func NewAuthenticator(opts AuthOptions) (*Authenticator, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: client_id is required", shared.ErrMissingCredentials)
	}
	if opts.RedirectURI == "" {
		return nil, fmt.Errorf("%w: redirect_uri is required", shared.ErrMissingConfig)
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: store is required", shared.ErrMissingConfig)
	}

	scopes := opts.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	authURL := opts.AuthURL
	if authURL == "" {
		authURL = spotifyauth.AuthURL
	}
	tokenURL := opts.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	session := opts.Session
	if session == nil {
		session = NewSession()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	length := opts.VerifierLength
	if length == 0 {
		length = pkce.DefaultVerifierLength
	}

	return &Authenticator{
		config: &oauth2.Config{
			ClientID:    opts.ClientID,
			RedirectURL: opts.RedirectURI,
			Scopes:      scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		store:          opts.Store,
		session:        session,
		httpClient:     httpClient,
		logger:         logger,
		verifierLength: length,
	}, nil
}

// Session returns the session this authenticator writes to.
func (a *Authenticator) Session() *Session { return a.session }

// BeginLogin persists a fresh code verifier and returns the authorize URL for the user to visit.
func (a *Authenticator) BeginLogin(ctx context.Context) (string, error) {
	pair, err := pkce.NewPair(a.verifierLength)
	if err != nil {
		return "", err
	}

	if err := a.store.Set(ctx, store.KeyCodeVerifier, pair.Verifier); err != nil {
		return "", err
	}

	authURL := a.config.AuthCodeURL("",
		oauth2.SetAuthURLParam("code_challenge_method", pair.Method()),
		oauth2.SetAuthURLParam("code_challenge", pair.Challenge),
	)

	a.session.awaitRedirect()
	a.logger.Debug("login started", "redirect_uri", a.config.RedirectURL)
	return authURL, nil
}

// CancelLogin gives up on a pending redirect. An existing login is kept, as is the stored verifier so
// a redirect pasted later can still complete.
func (a *Authenticator) CancelLogin() {
	a.session.abandon()
	a.logger.Debug("login cancelled", "state", a.session.State())
}

// CompleteLogin handles the query Spotify redirected back with.
//
// The boolean reports whether query carried a callback at all (code or error).
// A plain query without either is a no-op.
func (a *Authenticator) CompleteLogin(ctx context.Context, query url.Values) (bool, error) {
	if reason := query.Get("error"); reason != "" {
		a.session.abandon()
		return true, &AuthorizationError{Reason: reason}
	}

	code := query.Get("code")
	if code == "" {
		return false, nil
	}

	verifier, ok, err := a.store.Get(ctx, store.KeyCodeVerifier)
	if err != nil {
		return true, err
	}
	if !ok || !pkce.Valid(verifier) {
		a.session.abandon()
		return true, shared.ErrMissingVerifier
	}

	token, err := a.exchange(ctx, code, verifier)
	if err != nil {
		a.session.abandon()
		return true, err
	}

	if err := a.store.Set(ctx, store.KeyAccessToken, token); err != nil {
		return true, err
	}
	if err := a.store.Delete(ctx, store.KeyCodeVerifier); err != nil {
		a.logger.Warn("failed to discard code verifier", "error", err)
	}

	a.session.adopt(token)
	a.logger.Info("logged in")
	return true, nil
}

func (a *Authenticator) exchange(ctx context.Context, code, verifier string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	token, err := a.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			status := 0
			if rErr.Response != nil {
				status = rErr.Response.StatusCode
			}
			return "", &ExchangeError{StatusCode: status, Body: string(rErr.Body)}
		}

		var uErr *url.Error
		if errors.As(err, &uErr) {
			return "", fmt.Errorf("%w: %v", shared.ErrNetwork, uErr.Err)
		}
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidResponse, err)
	}

	return token.AccessToken, nil
}

// Restore adopts a persisted access token, if any. The token is not validated.
func (a *Authenticator) Restore(ctx context.Context) (bool, error) {
	token, ok, err := a.store.Get(ctx, store.KeyAccessToken)
	if err != nil {
		return false, err
	}
	if !ok || token == "" {
		return false, nil
	}

	a.session.adopt(token)
	a.logger.Debug("restored access token")
	return true, nil
}

// SetToken persists and adopts token as if it had come from an exchange.
func (a *Authenticator) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: token is empty", shared.ErrInvalidArgument)
	}
	if err := a.store.Set(ctx, store.KeyAccessToken, token); err != nil {
		return err
	}
	a.session.adopt(token)
	return nil
}

// Logout clears the token from memory and from the store.
func (a *Authenticator) Logout(ctx context.Context) error {
	a.session.clear()
	if err := a.store.Delete(ctx, store.KeyAccessToken); err != nil {
		return err
	}
	a.logger.Info("logged out")
	return nil
}

// CleanCallbackURL strips the one-shot OAuth parameters from a redirect URL so it is safe to display.
func CleanCallbackURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	q := u.Query()
	for _, key := range []string{"code", "state", "error", "error_description"} {
		q.Del(key)
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String()
}
