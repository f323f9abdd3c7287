// Package authhttp wraps outbound API calls with the session's bearer token
// and reacts to an expired session.
package authhttp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"fintrack/internal/router"
)

// TokenSource is the part of the session the transport needs.
type TokenSource interface {
	Token() (string, bool)
	Logout()
}

// Transport is an http.RoundTripper that authenticates requests.
//
// With a token present every request carries "Authorization: Bearer <token>",
// replacing any value the caller set. A request with a body and no
// Content-Type is sent as application/json; the body itself is passed through
// untouched. A 401 response logs the session out, navigates to the login
// route and is still returned to the caller. Everything else, including
// transport errors, is returned as-is.
type Transport struct {
	// Base performs the actual call. http.DefaultTransport when nil.
	Base http.RoundTripper

	Tokens    TokenSource
	Navigator router.Navigator
	Logger    *slog.Logger
}

// NewClient returns an http.Client using a Transport over base.
func NewClient(base http.RoundTripper, tokens TokenSource, nav router.Navigator, logger *slog.Logger) *http.Client {
	return &http.Client{
		Transport: &Transport{
			Base:      base,
			Tokens:    tokens,
			Navigator: nav,
			Logger:    logger,
		},
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrip must not modify the caller's request; Clone deep-copies headers.
	out := req.Clone(req.Context())

	if token, ok := t.Tokens.Token(); ok {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(out)
	}

	if hasBody(out) && out.Header.Get("Content-Type") == "" {
		out.Header.Set("Content-Type", "application/json")
	}

	logger := t.logger().With("request_id", uuid.NewString(), "method", out.Method, "url", out.URL.Redacted())
	start := time.Now()

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		logger.Debug("request failed", "error", err, "duration", time.Since(start))
		return nil, err
	}
	logger.Debug("request completed", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		logger.Info("session rejected by server, logging out")
		t.Tokens.Logout()
		if t.Navigator != nil {
			t.Navigator.Navigate(router.Login)
		}
	}

	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

func hasBody(req *http.Request) bool {
	return req.Body != nil && req.Body != http.NoBody
}
