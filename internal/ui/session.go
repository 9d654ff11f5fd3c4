package ui

import (
	"context"
	"strings"
	"sync"

	"github.com/i474232898/city-weather/internal/weather"
)

// Status is the observable state of a Session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusResult  Status = "result"
	StatusError   Status = "error"
)

// Searcher runs a complete lookup for a query.
type Searcher interface {
	Lookup(ctx context.Context, query string) (weather.Report, error)
}

// State is a copy of a Session's slots. Report is set only in StatusResult
// and Error only in StatusError.
type State struct {
	Status Status          `json:"status"`
	Query  string          `json:"query"`
	Report *weather.Report `json:"report,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Busy reports whether a search is in flight.
func (s State) Busy() bool {
	return s.Status == StatusLoading
}

// Session holds one visitor's search state. Each transition replaces the
// whole State, so a report and an error are never visible together.
type Session struct {
	searcher Searcher

	mu    sync.RWMutex
	state State
}

// NewSession creates an idle Session.
func NewSession(searcher Searcher) *Session {
	return &Session{
		searcher: searcher,
		state:    State{Status: StatusIdle},
	}
}

// State returns a copy of the current slots.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Search runs a lookup for query and returns the resulting state. Blank input
// is ignored: no call is made and the state is left as it was.
// Searches are not cancelled or de-duplicated; the last one to finish wins.
func (s *Session) Search(ctx context.Context, query string) State {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.State()
	}

	s.set(State{Status: StatusLoading, Query: q})

	report, err := s.searcher.Lookup(ctx, q)
	if err != nil {
		s.set(State{Status: StatusError, Query: q, Error: weather.UserMessage(err)})
	} else {
		s.set(State{Status: StatusResult, Query: q, Report: &report})
	}
	return s.State()
}

// Reset returns the session to Idle.
func (s *Session) Reset() {
	s.set(State{Status: StatusIdle})
}

func (s *Session) set(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
