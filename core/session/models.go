package session

import (
	"net/http"
	"time"
)

// Profile is the authenticated admin as returned by the backend `/profile` endpoint.
type Profile struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Authenticated   bool   `json:"authenticated"` // email verified
	ProfileImageURL string `json:"profileImageUrl"`
}

// State is the session tri-state.
// LoggedIn implies Profile != nil.
type State struct {
	Loading  bool
	LoggedIn bool
	Profile  *Profile
}

// Cookie is a backend cookie persisted along the browser session.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

func CookieFromHTTP(c *http.Cookie) Cookie {
	return Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}

func (c Cookie) HTTP() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Domain:   c.Domain,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}

// Record is the persisted part of a browser session.
type Record struct {
	ID             string    `json:"id"`
	BackendCookies []Cookie  `json:"backendCookies"`
	CreatedAt      time.Time `json:"createdAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}
