// Package session issues and reads the opaque session identifier that
// scopes all chat and todo data. The id lives in a long-lived cookie; no
// server-side session row exists.
package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// CookieName is the session cookie read from and written to the browser.
	CookieName = "__hello_ai_session"
	// cookieMaxAge is one year, in seconds.
	cookieMaxAge = 60 * 60 * 24 * 365

	contextKey = "joebot/session-id"
)

// FromRequest returns the session id carried by the request cookie, minting
// a fresh one when absent. Any non-empty cookie value is accepted as-is; a
// missing cookie is the normal new-session case, not an error. The new id is
// not persisted anywhere — the response must echo it back via Cookie.
func FromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return uuid.NewString()
}

// Cookie builds the Set-Cookie value for a session id. Pure function; fixed
// attributes.
func Cookie(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Middleware resolves the session id once per request, stores it in the
// echo context, and echoes the cookie on the response so first-contact
// requests adopt their new session.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := FromRequest(c)
			c.Set(contextKey, id)
			c.SetCookie(Cookie(id))
			return next(c)
		}
	}
}

// FromContext returns the session id resolved by Middleware.
func FromContext(c echo.Context) string {
	id, _ := c.Get(contextKey).(string)
	return id
}
