package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/notify"
)

// ExpiredMessage is shown once whenever the backend rejects the session.
const ExpiredMessage = "Session expired. Please login again."

// ProfileFetcher fetches the profile of the credentials at hand.
// It returns core.ErrUnauthorized when the backend answers 401.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context) (Profile, error)
}

// Store is the single source of truth for "who is logged in" in one browser.
type Store struct {
	fetcher  ProfileFetcher
	notifier notify.Notifier
	logger   core.Logger

	mu    sync.RWMutex
	state State
	known bool // at least one refresh completed
}

func NewStore(fetcher ProfileFetcher, notifier notify.Notifier, logger ...core.Logger) *Store {
	s := &Store{fetcher: fetcher, notifier: notifier}
	if len(logger) > 0 {
		s.logger = logger[0]
	}
	return s
}

// Refresh (re)fetches the profile and updates the state accordingly.
// It never returns an error: failures leave the store logged out.
func (s *Store) Refresh(ctx context.Context) *Profile {
	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state.Loading = false
		s.known = true
		s.mu.Unlock()
	}()

	p, err := s.fetcher.FetchProfile(ctx)
	switch {
	case err == nil:
		s.mu.Lock()
		s.state.Profile = &p
		s.state.LoggedIn = true
		s.mu.Unlock()
		cp := p
		return &cp

	case errors.Cause(err) == core.ErrUnauthorized:
		s.mu.Lock()
		s.state.LoggedIn = false
		s.state.Profile = nil
		s.mu.Unlock()
		if s.notifier != nil {
			s.notifier.Error(ExpiredMessage)
		}

	default:
		s.mu.Lock()
		s.state.LoggedIn = false
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Warn("fetching profile", errors.Wrap(err, "refreshing session"))
		}
	}
	return nil
}

// Clear logs the store out without asking the backend.
func (s *Store) Clear() {
	s.mu.Lock()
	s.state.LoggedIn = false
	s.state.Profile = nil
	s.known = true
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
// Until the first refresh completes the status is unknown and reported as Loading.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Loading = st.Loading || !s.known
	if st.Profile != nil {
		p := *st.Profile
		st.Profile = &p
	}
	return st
}

// Profile returns the logged in profile, if any.
func (s *Store) Profile() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.LoggedIn || s.state.Profile == nil {
		return Profile{}, false
	}
	return *s.state.Profile, true
}

// Known reports whether the login status has been determined at least once.
func (s *Store) Known() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.known
}
