package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const sessionName = "reviewrelay"

// oauthScope is the fixed scope requested from the provider.
const oauthScope = "user:email"

// AuthHandler serves the OAuth login flow. All flow state (the post-login
// redirect target and the obtained token) lives in an encrypted session
// cookie; there is no server-side session store.
type AuthHandler struct {
	oauth  *oauth2.Config
	store  sessions.Store
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler for GitHub OAuth. sessionKey is the
// 32-byte cookie encryption key; when nil a random per-process key is
// generated, which invalidates all existing sessions on restart.
func NewAuthHandler(clientID, clientSecret string, sessionKey []byte, logger *slog.Logger) *AuthHandler {
	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     githuboauth.Endpoint,
		Scopes:       []string{oauthScope},
	}
	return NewAuthHandlerWithConfig(cfg, sessionKey, logger)
}

// NewAuthHandlerWithConfig creates an AuthHandler with a caller-supplied
// oauth2.Config. This constructor is intended for testing, allowing the
// provider endpoints to point at an httptest server.
func NewAuthHandlerWithConfig(cfg *oauth2.Config, sessionKey []byte, logger *slog.Logger) *AuthHandler {
	if sessionKey == nil {
		sessionKey = securecookie.GenerateRandomKey(32)
		logger.Warn("no session key configured, generated a per-process key; sessions will not survive restarts")
	}

	// The key is passed twice: once for authentication, once to enable
	// cookie encryption.
	return &AuthHandler{
		oauth:  cfg,
		store:  sessions.NewCookieStore(sessionKey, sessionKey),
		logger: logger,
	}
}

// ServeHTTP runs the two-step login flow. Without a code it stashes the
// caller's desired post-login target in the session and redirects to the
// provider's authorize URL; with a code it exchanges it for a token, stores
// the token in the session, and redirects to the stashed target.
func (a *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Get returns a fresh session on decode errors, which is the right
	// behavior when the key rotated.
	session, _ := a.store.Get(r, sessionName)

	code := r.URL.Query().Get("code")
	if code == "" {
		redirectURI := r.URL.Query().Get("redirect_uri")
		if redirectURI == "" {
			redirectURI = "/"
		}
		session.Values["redirect_uri"] = redirectURI
		if err := session.Save(r, w); err != nil {
			a.logger.Error("saving session failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		http.Redirect(w, r, a.oauth.AuthCodeURL(""), http.StatusFound)
		return
	}

	token, err := a.oauth.Exchange(r.Context(), code)
	if err != nil {
		a.logger.Error("token exchange failed", "error", err)
		writeError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	session.Values["token"] = token.AccessToken

	next := "/"
	if v, ok := session.Values["redirect_uri"].(string); ok && v != "" {
		next = v
	}
	delete(session.Values, "redirect_uri")

	if err := session.Save(r, w); err != nil {
		a.logger.Error("saving session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.logger.Debug("redirecting back", "next", next)
	http.Redirect(w, r, next, http.StatusFound)
}
