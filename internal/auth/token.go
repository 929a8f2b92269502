package auth

import (
	"net/http"
	"strings"
	"sync"
)

// DefaultCookieName is the session cookie carrying the download token
const DefaultCookieName = "ADCDownloadAuth"

// TokenStore holds the optional download auth token for the process.
// Writes come from cookie ingestion, reads from the orchestrator; last write wins.
type TokenStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Set overwrites the current token. No validation is performed.
func (s *TokenStore) Set(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = value
	s.set = true
}

// Get returns the current token and whether one has been set
func (s *TokenStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.set
}

// FromCookies returns the value of the named cookie, if present and non-empty.
func FromCookies(cookies []*http.Cookie, name string) (string, bool) {
	if name == "" {
		name = DefaultCookieName
	}
	for _, c := range cookies {
		if c == nil || c.Name != name {
			continue
		}
		if v := strings.TrimSpace(c.Value); v != "" {
			return v, true
		}
	}
	return "", false
}

// FromCookieHeader parses a raw Cookie header ("a=1; b=2") and looks up the token.
func FromCookieHeader(header, name string) (string, bool) {
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return "", false
	}
	return FromCookies(cookies, name)
}
