package httpd

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// Authenticator verifies bearer tokens on intake requests against the
// configured shared secret.
type Authenticator struct {
	token string
}

// NewAuthenticator creates an Authenticator with the given token.
// If the token is empty, authentication is disabled.
func NewAuthenticator(token string) *Authenticator {
	return &Authenticator{token: token}
}

// Enabled returns true if an auth token is configured.
func (a *Authenticator) Enabled() bool {
	return a.token != ""
}

// Verify checks an Authorization header value of the form "Bearer <token>".
// Returns nil on success or an error describing the failure.
func (a *Authenticator) Verify(header string) error {
	if header == "" {
		return errors.New("missing authorization header")
	}

	scheme, value, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return errors.New("authorization scheme must be Bearer")
	}

	if subtle.ConstantTimeCompare([]byte(value), []byte(a.token)) != 1 {
		return errors.New("authentication failed")
	}

	return nil
}

// Middleware rejects requests that fail Verify with 401. When
// authentication is disabled it passes every request through.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Enabled() {
			if err := a.Verify(r.Header.Get("Authorization")); err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
