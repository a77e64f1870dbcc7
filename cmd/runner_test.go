package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/desertthunder/spotsearch/internal/store"
	tu "github.com/desertthunder/spotsearch/internal/testing"
)

const searchBody = `{"tracks":{"items":[
	{"id":"t1","name":"Love","artists":[{"name":"A"}],"album":{"name":"X","images":[{"url":"https://img/1.jpg"}]}},
	{"id":"t2","name":"Lover","artists":[{"name":"B"}],"album":{"name":"Y"}},
	{"id":"t3","name":"Loved","artists":[{"name":"C"}],"album":{"name":"Z","images":[{"url":"https://img/3.jpg"}]}}
]}}`

const profileBody = `{"id":"u1","display_name":"Tester","email":"t@example.com","country":"US","product":"premium","followers":{"total":5}}`

type fakeSpotify struct {
	server   *httptest.Server
	searches atomic.Int32
}

func newFakeSpotify(t *testing.T) *fakeSpotify {
	t.Helper()
	f := &fakeSpotify{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			f.searches.Add(1)
			io.WriteString(w, searchBody)
		case "/me":
			io.WriteString(w, profileBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

// testRunner returns a runner wired to api with an in-memory store, writing to a buffer.
func testRunner(t *testing.T, api *fakeSpotify, s store.Store) (*Runner, *bytes.Buffer) {
	t.Helper()
	config := shared.DefaultConfig()
	config.Credentials.Spotify.ClientID = "client-123"
	if api != nil {
		config.Search.BaseURL = api.server.URL
	}
	if s == nil {
		s = store.NewMemoryStore()
	}

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: "config.toml",
		Store:      s,
		Logger:     log.New(io.Discard),
		Output:     output,
		Open:       func(string) error { return errors.New("no browser in tests") },
	})
	return runner, output
}

func loggedInStore(t *testing.T) store.Store {
	t.Helper()
	s := store.NewMemoryStore()
	if err := s.Set(context.Background(), store.KeyAccessToken, "persisted"); err != nil {
		t.Fatal(err)
	}
	return s
}

func run(runner *Runner, args ...string) error {
	return newApp(runner).Run(context.Background(), append([]string{"spotsearch"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			s := store.NewMemoryStore()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Store:      s,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.store != s {
				t.Error("expected store to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
			if runner.open == nil {
				t.Error("expected a browser opener")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writeBytes keeps an existing trailing newline", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeBytes([]byte("a,b\n")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "a,b\n" {
			t.Errorf("expected a single newline, got %q", output.String())
		}
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "auth", "search", "history", "tui"} {
			if !names[want] {
				t.Errorf("expected %q to be registered", want)
			}
		}
	})

	t.Run("connect requires a client ID", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Store: store.NewMemoryStore(), Logger: log.New(io.Discard)})
		err := runner.connect(context.Background())
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestSearchCommand(t *testing.T) {
	t.Run("text output", func(t *testing.T) {
		api := newFakeSpotify(t)
		runner, output := testRunner(t, api, loggedInStore(t))

		if err := run(runner, "search", "track", "love"); err != nil {
			t.Fatalf("search failed: %v", err)
		}

		result := output.String()
		for _, want := range []string{"Searching tracks...", "Found 3 tracks.", "1. Love", "images/defaultImage.jpg", "B • Y"} {
			if !strings.Contains(result, want) {
				t.Errorf("expected %q in output, got:\n%s", want, result)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		api := newFakeSpotify(t)
		runner, output := testRunner(t, api, loggedInStore(t))

		if err := run(runner, "search", "--format", "json", "tracks", "love"); err != nil {
			t.Fatalf("search failed: %v", err)
		}

		result := output.String()
		if !strings.HasPrefix(result, "{") {
			t.Errorf("expected JSON only on stdout, got:\n%s", result)
		}
		if !strings.Contains(result, `"title": "Lover"`) {
			t.Errorf("expected normalized items, got:\n%s", result)
		}
	})

	t.Run("raw output", func(t *testing.T) {
		api := newFakeSpotify(t)
		runner, output := testRunner(t, api, loggedInStore(t))

		if err := run(runner, "search", "--raw", "track", "love"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if strings.TrimSpace(output.String()) != strings.TrimSpace(searchBody) {
			t.Errorf("expected the body unchanged, got:\n%s", output.String())
		}
	})

	t.Run("export to file", func(t *testing.T) {
		api := newFakeSpotify(t)
		runner, _ := testRunner(t, api, loggedInStore(t))
		path := filepath.Join(t.TempDir(), "out.csv")

		if err := run(runner, "search", "--format", "csv", "--output", path, "track", "love"); err != nil {
			t.Fatalf("search failed: %v", err)
		}

		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "t2,track,Lover,B,Y,images/defaultImage.jpg") {
			t.Errorf("unexpected CSV:\n%s", content)
		}
	})

	t.Run("logged out", func(t *testing.T) {
		api := newFakeSpotify(t)
		runner, output := testRunner(t, api, nil)

		err := run(runner, "search", "track", "love")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if !strings.Contains(output.String(), "Please log in with Spotify first.") {
			t.Errorf("expected login prompt, got:\n%s", output.String())
		}
		if api.searches.Load() != 0 {
			t.Error("no request should reach Spotify while logged out")
		}
	})

	t.Run("invalid arguments", func(t *testing.T) {
		api := newFakeSpotify(t)

		tests := []struct {
			args []string
			want error
		}{
			{[]string{"search", "track"}, shared.ErrMissingArgument},
			{[]string{"search", "artist", "x"}, shared.ErrInvalidArgument},
			{[]string{"search", "--limit", "0", "track", "x"}, shared.ErrInvalidArgument},
			{[]string{"search", "--format", "xml", "track", "x"}, shared.ErrInvalidArgument},
		}
		for _, tt := range tests {
			runner, _ := testRunner(t, api, loggedInStore(t))
			if err := run(runner, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("%v: expected %v, got %v", tt.args, tt.want, err)
			}
		}
		if api.searches.Load() != 0 {
			t.Error("invalid arguments should not reach Spotify")
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("token then status", func(t *testing.T) {
		api := newFakeSpotify(t)
		s := store.NewMemoryStore()
		runner, output := testRunner(t, api, s)

		if err := run(runner, "auth", "token", "manual-token"); err != nil {
			t.Fatalf("token failed: %v", err)
		}
		if got, ok, _ := s.Get(context.Background(), store.KeyAccessToken); !ok || got != "manual-token" {
			t.Errorf("expected token to be persisted, got %q", got)
		}

		runner, output = testRunner(t, api, s)
		if err := run(runner, "auth", "status"); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "Tester (u1)") || !strings.Contains(result, "Followers: 5") {
			t.Errorf("unexpected status output:\n%s", result)
		}
	})

	t.Run("status logged out", func(t *testing.T) {
		runner, output := testRunner(t, newFakeSpotify(t), nil)
		if err := run(runner, "auth", "status"); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(output.String(), "Status: logged out") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("callback with error", func(t *testing.T) {
		runner, output := testRunner(t, newFakeSpotify(t), nil)
		err := run(runner, "auth", "callback", "http://127.0.0.1:3000/callback?error=access_denied")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if !strings.Contains(output.String(), "Error from Spotify: access_denied") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("callback without verifier", func(t *testing.T) {
		runner, output := testRunner(t, newFakeSpotify(t), nil)
		err := run(runner, "auth", "callback", "?code=abc123")
		if !errors.Is(err, shared.ErrMissingVerifier) {
			t.Errorf("expected ErrMissingVerifier, got %v", err)
		}
		if !strings.Contains(output.String(), "Missing code_verifier. Try logging in again.") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("logout", func(t *testing.T) {
		s := loggedInStore(t)
		runner, output := testRunner(t, newFakeSpotify(t), s)

		if err := run(runner, "auth", "logout"); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if !strings.Contains(output.String(), "(Not logged in)") {
			t.Errorf("unexpected output %q", output.String())
		}
		if _, ok, _ := s.Get(context.Background(), store.KeyAccessToken); ok {
			t.Error("token should be removed from the store")
		}
	})
}

func TestHistoryCommand(t *testing.T) {
	t.Run("requires sqlite", func(t *testing.T) {
		runner, _ := testRunner(t, newFakeSpotify(t), nil)
		runner.config.Storage.Driver = store.DriverMemory

		if err := run(runner, "history"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("records searches", func(t *testing.T) {
		api := newFakeSpotify(t)
		config := shared.DefaultConfig()
		config.Credentials.Spotify.ClientID = "client-123"
		config.Search.BaseURL = api.server.URL
		config.Storage.Driver = store.DriverSQLite
		config.Database.Path = filepath.Join(t.TempDir(), "spotsearch.db")

		newRunner := func() (*Runner, *bytes.Buffer) {
			output := &bytes.Buffer{}
			return NewRunner(RunnerOpts{Config: config, ConfigPath: "config.toml", Logger: log.New(io.Discard), Output: output}), output
		}

		runner, _ := newRunner()
		if err := run(runner, "auth", "token", "tok"); err != nil {
			t.Fatalf("token failed: %v", err)
		}

		runner, _ = newRunner()
		if err := run(runner, "search", "album", "blue"); err != nil {
			t.Fatalf("search failed: %v", err)
		}

		runner, output := newRunner()
		if err := run(runner, "history", "--json"); err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(output.String(), `"query": "blue"`) || !strings.Contains(output.String(), `"type": "album"`) {
			t.Errorf("expected the search in history, got:\n%s", output.String())
		}

		runner, output = newRunner()
		if err := run(runner, "history", "--clear"); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		if !strings.Contains(output.String(), "Removed 1 searches") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestSetupCommand(t *testing.T) {
	tempDir := t.TempDir()
	originalDir := tu.MustGetwd(t)
	tu.MustChdir(t, tempDir)
	defer tu.MustChdir(t, originalDir)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{ConfigPath: "config.toml", Logger: log.New(io.Discard), Output: output})

	if err := run(runner, "setup"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	tu.AssertFileExists(t, "config.toml")
	tu.AssertFileExists(t, "spotsearch.db")
	if !strings.Contains(output.String(), "Next steps:") {
		t.Errorf("expected next steps for a placeholder client ID, got:\n%s", output.String())
	}
}
