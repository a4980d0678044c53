package snow

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// Credentials authenticates each outgoing request. Gateways receive them at
// construction and never read session state from anywhere else.
type Credentials interface {
	Apply(req *http.Request)
	Mode() string
}

const (
	ModeToken   = "token"
	ModeBasic   = "basic"
	ModeSession = "session"
)

// SessionToken sends the per-session user token the instance hands to
// authenticated pages.
type SessionToken struct {
	Token string
}

func (c SessionToken) Apply(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("X-UserToken", c.Token)
	}
}

func (c SessionToken) Mode() string { return ModeToken }

// BasicAuth authenticates as a service account.
type BasicAuth struct {
	Username string
	Password string
}

func (c BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(c.Username, c.Password)
}

func (c BasicAuth) Mode() string { return ModeBasic }

// Session is local-development mode: no token header, the request rides on
// the browser session cookies copied from a logged-in browser.
type Session struct {
	Cookies []*http.Cookie
}

// NewSession parses a raw Cookie header value ("a=1; b=2").
func NewSession(rawCookie string) (Session, error) {
	if rawCookie == "" {
		return Session{}, nil
	}
	cookies, err := http.ParseCookie(rawCookie)
	if err != nil {
		return Session{}, fmt.Errorf("snow.NewSession(): invalid session cookie: %w", err)
	}
	return Session{Cookies: cookies}, nil
}

func (c Session) Apply(req *http.Request) {}

func (c Session) Mode() string { return ModeSession }

// RequiresProbe reports whether the console must verify the session before
// showing anything.
func (c Session) RequiresProbe() bool { return true }

// RequiresProbe reports whether creds ask for an authentication pre-check.
func RequiresProbe(creds Credentials) bool {
	p, ok := creds.(interface{ RequiresProbe() bool })
	return ok && p.RequiresProbe()
}

func newJar(base *url.URL, creds Credentials) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if s, ok := creds.(Session); ok && len(s.Cookies) > 0 {
		jar.SetCookies(base, s.Cookies)
	}
	return jar, nil
}
