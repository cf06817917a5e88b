// Package session holds the bearer credential for the backend API and
// signals its expiry. The session is created at application start, attached
// to every gateway request, invalidated on the first 401, and torn down on
// sign-out.
package session

import (
	"net/http"
	"sync"
)

// Session is an explicit credential holder passed to the gateway
// constructor. It replaces any notion of global auth state.
type Session struct {
	mu        sync.RWMutex
	token     string
	expired   bool
	onExpired []func()
}

// New creates a session for the given bearer token.
func New(token string) *Session {
	return &Session{token: token}
}

// Token returns the current bearer token, or "" after sign-out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Expired reports whether the backend has rejected the credential.
func (s *Session) Expired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expired
}

// OnExpired registers a hook invoked once when the session expires.
func (s *Session) OnExpired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = append(s.onExpired, fn)
}

// Invalidate marks the session expired after a 401 response. Hooks run once,
// on the first invalidation.
func (s *Session) Invalidate() {
	s.mu.Lock()
	if s.expired {
		s.mu.Unlock()
		return
	}
	s.expired = true
	hooks := s.onExpired
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// SignOut clears the credential entirely.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expired = true
}

// RoundTripper attaches the session's bearer credential to every request.
type RoundTripper struct {
	Session *Session
	Base    http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	if token := rt.Session.Token(); token != "" {
		cloned.Header.Set("Authorization", "Bearer "+token)
	}
	return rt.base().RoundTrip(cloned)
}

func (rt *RoundTripper) base() http.RoundTripper {
	if rt.Base != nil {
		return rt.Base
	}
	return http.DefaultTransport
}
