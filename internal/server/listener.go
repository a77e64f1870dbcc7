package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsearch/internal/shared"
)

// DefaultCallbackTimeout bounds how long [CallbackServer.Receive] waits for the browser.
const DefaultCallbackTimeout = 2 * time.Minute

// CallbackServer runs a short-lived local HTTP server for a single OAuth redirect.
type CallbackServer struct {
	addr    string
	path    string
	timeout time.Duration
	logger  *log.Logger
}

// NewCallbackServer listens on addr (host:port) and serves the path of redirectURI.
func NewCallbackServer(addr, redirectURI string, timeout time.Duration, logger *log.Logger) (*CallbackServer, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("%w: redirect_uri: %v", shared.ErrInvalidConfig, err)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	if timeout <= 0 {
		timeout = DefaultCallbackTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CallbackServer{addr: addr, path: path, timeout: timeout, logger: logger}, nil
}

// Session is one running callback server.
type Session struct {
	handler *CallbackHandler
	server  *http.Server
	addr    string
	errs    chan error
	timeout time.Duration
	logger  *log.Logger
}

// Addr is the address actually bound, useful when listening on port 0.
func (s *Session) Addr() string { return s.addr }

// Start binds the listener and begins serving in the background.
func (c *CallbackServer) Start() (*Session, error) {
	handler := NewCallbackHandler(c.path)
	router := NewBasicRouter()
	router.Use(Recover(c.logger), Logging(c.logger))
	router.Handler(handler)

	ln, err := net.Listen("tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", c.addr, err)
	}

	s := &Session{
		handler: handler,
		server:  &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second},
		addr:    ln.Addr().String(),
		errs:    make(chan error, 1),
		timeout: c.timeout,
		logger:  c.logger,
	}

	go func() {
		c.logger.Infof("starting callback server at %v", s.addr)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()

	return s, nil
}

// Wait blocks until the redirect arrives, the timeout passes or ctx is done, then shuts the server down.
func (s *Session) Wait(ctx context.Context) (url.Values, error) {
	defer s.shutdown()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case query := <-s.handler.Result():
		return query, nil
	case err := <-s.errs:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization timed out after %v", shared.ErrTimeout, s.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Receive is [Session.Wait]; it lets a started session stand in wherever a receiver is expected.
func (s *Session) Receive(ctx context.Context) (url.Values, error) { return s.Wait(ctx) }

func (s *Session) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("error shutting down server", "error", err)
	}
}

// Receive starts a server and waits for one redirect.
func (c *CallbackServer) Receive(ctx context.Context) (url.Values, error) {
	s, err := c.Start()
	if err != nil {
		return nil, err
	}
	return s.Wait(ctx)
}
