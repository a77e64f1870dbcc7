package app

import (
	"context"
	"net/url"

	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/desertthunder/spotsearch/internal/ui"
)

// Receiver waits for the OAuth redirect and returns its query.
type Receiver interface {
	Receive(ctx context.Context) (url.Values, error)
}

// ListenFunc binds a [Receiver]. It runs before the browser opens so an early redirect is not lost.
type ListenFunc func() (Receiver, error)

// BrowserLogin runs the whole login: start the flow, open the authorize URL, wait for the redirect and complete it.
// If the browser cannot be opened the URL is shown in the status line instead.
func (c *Controller) BrowserLogin(ctx context.Context, open shared.BrowserOpener, listen ListenFunc) error {
	authURL, err := c.Login(ctx)
	if err != nil {
		return err
	}

	recv, err := listen()
	if err != nil {
		c.auth.CancelLogin()
		c.presenter.Status("Login failed: " + err.Error())
		return err
	}

	if open == nil {
		open = shared.OpenBrowser
	}
	if err := open(authURL); err != nil {
		c.logger.Warnf("failed to open browser automatically %v", err)
		c.presenter.Status("Open this URL in your browser to log in:\n" + authURL)
	} else {
		c.presenter.Status("Waiting for Spotify authorization...")
	}

	query, err := recv.Receive(ctx)
	if err != nil {
		c.auth.CancelLogin()
		c.presenter.Status("Login failed: " + err.Error())
		return err
	}

	_, err = c.Callback(ctx, query)
	return err
}

// Interactive adapts a [Controller] to [ui.Actions], logging in through a browser and a local receiver.
type Interactive struct {
	*Controller
	Open   shared.BrowserOpener
	Listen ListenFunc
}

var _ ui.Actions = Interactive{}

func (i Interactive) Login(ctx context.Context) error {
	return i.Controller.BrowserLogin(ctx, i.Open, i.Listen)
}
