// ABOUTME: Browser-based OAuth 2.0 authorization code flow for connecting a Google account
// ABOUTME: Opens the consent page, verifies state on the local callback and returns the code

package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Defaults for the Google consent endpoint.
const (
	DefaultAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	DefaultRedirectURI = "http://localhost:5173"
)

// Config holds the parameters of the authorization request.
type Config struct {
	ClientID    string
	AuthURL     string // Defaults to DefaultAuthURL.
	RedirectURI string // Must be registered with the provider; port 0 picks a free port.
	Scopes      []string
}

// ErrNoClientID is returned when the flow has no client id configured.
var ErrNoClientID = errors.New("oauth: client id is not configured")

// openBrowserFunc is the function used to open URLs in the browser.
// It is a package-level variable so tests can override it.
var openBrowserFunc = openBrowser

// Flow runs one authorization request at a time.
type Flow struct {
	cfg Config
}

// New creates a flow, filling in default endpoints.
func New(cfg Config) *Flow {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = DefaultRedirectURI
	}
	return &Flow{cfg: cfg}
}

// Run opens the browser at the consent page and waits for the provider to
// redirect back with an authorization code. The code is returned unexchanged;
// the agent backend performs the token exchange.
func (f *Flow) Run(ctx context.Context) (string, error) {
	if f.cfg.ClientID == "" {
		return "", ErrNoClientID
	}

	redirect, err := url.Parse(f.cfg.RedirectURI)
	if err != nil {
		return "", fmt.Errorf("parsing redirect URI %q: %w", f.cfg.RedirectURI, err)
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return "", fmt.Errorf("starting callback listener: %w", err)
	}
	if redirect.Port() == "0" {
		redirect.Host = listener.Addr().String()
	}
	pattern := "GET " + redirect.Path
	if redirect.Path == "" || redirect.Path == "/" {
		pattern = "GET /{$}"
	}

	state := generateState()

	type callbackResult struct {
		code string
		err  error
	}
	resultCh := make(chan callbackResult, 1)
	deliver := func(r callbackResult) {
		select {
		case resultCh <- r:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if q.Get("state") != state {
			http.Error(w, "invalid state parameter", http.StatusBadRequest)
			deliver(callbackResult{err: fmt.Errorf("state mismatch: got %q", q.Get("state"))})
			return
		}

		if errParam := q.Get("error"); errParam != "" {
			http.Error(w, "Authorization failed: "+errParam, http.StatusBadRequest)
			deliver(callbackResult{err: fmt.Errorf("authorization error: %s: %s", errParam, q.Get("error_description"))})
			return
		}

		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code parameter", http.StatusBadRequest)
			deliver(callbackResult{err: errors.New("callback missing code parameter")})
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Google account connected</h1><p>You can close this window and return to the terminal.</p></body></html>")
		deliver(callbackResult{code: code})
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if serveErr := srv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			deliver(callbackResult{err: fmt.Errorf("callback server: %w", serveErr)})
		}
	}()
	defer srv.Close()

	authURL, err := buildAuthURL(f.cfg, redirect.String(), state)
	if err != nil {
		return "", fmt.Errorf("building auth URL: %w", err)
	}

	if err := openBrowserFunc(authURL); err != nil {
		return "", fmt.Errorf("opening browser: %w", err)
	}

	select {
	case result := <-resultCh:
		return result.code, result.err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

// buildAuthURL constructs the consent URL. Offline access with a forced
// consent prompt makes the provider issue a refresh token every time.
func buildAuthURL(cfg Config, redirectURI, state string) (string, error) {
	u, err := url.Parse(cfg.AuthURL)
	if err != nil {
		return "", fmt.Errorf("parsing auth URL %q: %w", cfg.AuthURL, err)
	}

	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", cfg.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", strings.Join(cfg.Scopes, " "))
	q.Set("state", state)
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// generateState generates a random state parameter for CSRF protection.
// It produces a 32-character hex string (16 random bytes).
func generateState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// openBrowser opens a URL in the system's default browser.
func openBrowser(u string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", u).Start()
	case "linux":
		return exec.Command("xdg-open", u).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", u).Start()
	default:
		return fmt.Errorf("unsupported platform %q for opening browser", runtime.GOOS)
	}
}
