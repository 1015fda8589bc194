// Package auth owns the YouTube credential lifecycle: loading the token blob
// from disk, refreshing it when expired, running the interactive browser
// consent flow when nothing usable remains, and producing an authenticated
// API service handle.
//
// The token file is overwritten on every successful refresh or consent. There
// is no locking discipline: two operations authenticating against the same
// path race, and the last writer wins.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/pkg/browser"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"tubesync/pkg/httputil"
)

const consentTimeout = 5 * time.Minute

var scopes = []string{
	"https://www.googleapis.com/auth/youtube",
}

// An AuthError is fatal to the operation that triggered authentication.
type AuthError struct {
	Stage string
	Err   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s: %v", e.Stage, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

type Authenticator struct {
	config    *oauth2.Config
	tokenPath string

	// openBrowser is swapped out in tests.
	openBrowser func(url string) error
}

func New(clientID, clientSecret, tokenPath string) *Authenticator {
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       scopes,
		},
		tokenPath:   tokenPath,
		openBrowser: browser.OpenURL,
	}
}

// Service returns a YouTube API handle backed by a valid credential,
// acquiring one first if needed. Any failure is an *AuthError.
func (a *Authenticator) Service(ctx context.Context) (*youtube.Service, error) {
	tok, err := a.Token(ctx)
	if err != nil {
		return nil, err
	}

	transport := httputil.NewRetryTransport(&oauth2.Transport{
		Source: a.config.TokenSource(ctx, tok),
	}, httputil.DefaultRetryConfig())

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(&http.Client{Transport: transport}))
	if err != nil {
		return nil, &AuthError{Stage: "build service", Err: err}
	}
	return svc, nil
}

// Token returns a usable OAuth token, refreshing or re-running the consent
// flow as the on-disk state requires.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	tok, loadErr := a.loadToken()

	switch state := Classify(tok, loadErr); state {
	case TokenValid:
		return tok, nil
	case TokenExpired:
		refreshed, err := a.config.TokenSource(ctx, tok).Token()
		if err == nil {
			slog.Info("Token refreshed")
			if err := a.saveToken(refreshed); err != nil {
				return nil, &AuthError{Stage: "save token", Err: err}
			}
			return refreshed, nil
		}
		slog.Warn("Token refresh failed, starting consent flow", "error", err)
	default:
		slog.Info("No usable token, starting consent flow", "state", state.String())
	}

	tok, err := a.Consent(ctx)
	if err != nil {
		return nil, &AuthError{Stage: "consent flow", Err: err}
	}
	if err := a.saveToken(tok); err != nil {
		return nil, &AuthError{Stage: "save token", Err: err}
	}
	slog.Info("Token obtained via browser consent", "path", a.tokenPath)
	return tok, nil
}

// State reports the current on-disk credential state without touching the
// network.
func (a *Authenticator) State() TokenState {
	tok, err := a.loadToken()
	return Classify(tok, err)
}

// Consent runs the interactive flow: a loopback callback server is started,
// the browser is pointed at the consent URL, and the returned code is
// exchanged for a token. Times out after five minutes.
func (a *Authenticator) Consent(ctx context.Context) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("start callback server: %w", err)
	}

	cfg := *a.config
	cfg.RedirectURL = fmt.Sprintf("http://%s/callback", listener.Addr())

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	server := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/callback" {
				http.NotFound(w, r)
				return
			}

			code := r.URL.Query().Get("code")
			if code == "" {
				errChan <- fmt.Errorf("no code in callback")
				_, _ = fmt.Fprint(w, "<html><body><h1>Error</h1><p>No authorization code received.</p></body></html>")
				return
			}

			codeChan <- code
			_, _ = fmt.Fprint(w, "<html><body><h1>Success!</h1><p>You can close this window and return to the terminal.</p></body></html>")
		}),
	}

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	slog.Info("Opening browser for consent", "url", authURL)
	if err := a.openBrowser(authURL); err != nil {
		slog.Warn("Could not open browser, visit the URL manually", "error", err)
	}

	select {
	case code := <-codeChan:
		tok, err := cfg.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("exchange code: %w", err)
		}
		return tok, nil

	case err := <-errChan:
		return nil, err

	case <-ctx.Done():
		return nil, ctx.Err()

	case <-time.After(consentTimeout):
		return nil, fmt.Errorf("consent flow timed out after %s", consentTimeout)
	}
}

func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.tokenPath)
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return &token, nil
}

func (a *Authenticator) saveToken(tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := os.WriteFile(a.tokenPath, data, 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
