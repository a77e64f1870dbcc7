package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsearch/internal/app"
	"github.com/desertthunder/spotsearch/internal/auth"
	"github.com/desertthunder/spotsearch/internal/models"
	"github.com/desertthunder/spotsearch/internal/repositories"
	"github.com/desertthunder/spotsearch/internal/services"
	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/desertthunder/spotsearch/internal/store"
	"github.com/desertthunder/spotsearch/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store, authenticator and Spotify client are built on first use so that commands like setup
// work before credentials are configured.
type Runner struct {
	config     *shared.Config
	configPath string
	store      store.Store
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	open       shared.BrowserOpener

	auth    *auth.Authenticator
	spotify *services.SpotifyService
	history *repositories.HistoryRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      store.Store
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Open       shared.BrowserOpener
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		open:       opts.Open,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and everything it builds afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// before loads configuration from the root flags. It runs ahead of every subcommand.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" && path != r.configPath {
		config, err := shared.LoadOrDefault(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.configPath = path
	}

	if cmd.Bool("ephemeral") {
		r.config.Storage.Driver = store.DriverMemory
	}
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	return ctx, r.config.Validate()
}

// connect opens the store and builds the authenticator and gateway.
func (r *Runner) connect(ctx context.Context) error {
	if r.auth != nil {
		return nil
	}
	if err := r.config.ValidateCredentials(); err != nil {
		return err
	}

	if r.store == nil {
		s, err := store.Open(r.config)
		if err != nil {
			return err
		}
		r.store = s
	}
	if sqlStore, ok := r.store.(*store.SQLiteStore); ok {
		r.history = repositories.NewHistoryRepository(sqlStore.DB())
	}

	sp := r.config.Credentials.Spotify
	authenticator, err := auth.NewAuthenticator(auth.AuthOptions{
		ClientID:    sp.ClientID,
		RedirectURI: sp.RedirectURI,
		Scopes:      sp.Scopes,
		Store:       r.store,
		HTTPClient:  r.httpClient,
		Logger:      shared.WithLogger(r.logger, "component", "auth"),
	})
	if err != nil {
		return err
	}

	spotify, err := services.NewSpotifyService(services.SpotifyOptions{
		Session:    authenticator.Session(),
		HTTPClient: r.httpClient,
		BaseURL:    r.config.Search.BaseURL,
		Limit:      r.config.Search.Limit,
		Logger:     shared.WithLogger(r.logger, "service", "spotify"),
	})
	if err != nil {
		return err
	}

	r.auth = authenticator
	r.spotify = spotify
	return nil
}

// controller builds an [app.Controller] that reports through p and restores the persisted token.
func (r *Runner) controller(ctx context.Context, p ui.Presenter, searcher services.Searcher) (*app.Controller, error) {
	ctrl, err := r.newController(ctx, p, searcher)
	if err != nil {
		return nil, err
	}
	if _, err := ctrl.Init(ctx, nil); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func (r *Runner) newController(ctx context.Context, p ui.Presenter, searcher services.Searcher) (*app.Controller, error) {
	if err := r.connect(ctx); err != nil {
		return nil, err
	}
	if searcher == nil {
		searcher = r.spotify
	}

	var history models.Repository[*models.SearchRecord]
	if r.history != nil {
		history = r.history
	}

	return app.New(app.Options{
		Auth:          r.auth,
		Searcher:      searcher,
		Presenter:     p,
		History:       history,
		FallbackImage: r.config.Search.FallbackImage,
		Logger:        r.logger,
	})
}

// Close releases the store.
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return r.writeBytes(output)
}

// writeBytes writes data followed by a newline when data does not already end with one.
func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if len(data) == 0 || data[len(data)-1] != '\n' {
		if _, err := r.output.Write([]byte("\n")); err != nil {
			return fmt.Errorf("failed to write newline: %w", err)
		}
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// logPresenter sends status lines to the logger and drops rendered results. Used when stdout
// carries machine readable output.
type logPresenter struct {
	logger *log.Logger
}

func (p *logPresenter) Status(msg string)                 { p.logger.Info(msg) }
func (p *logPresenter) Render(models.Kind, []models.Item) {}
func (p *logPresenter) Clear()                            {}
