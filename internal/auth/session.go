package auth

import "sync"

// State is the login state of a [Session].
type State int

const (
	LoggedOut State = iota
	AwaitingRedirect
	LoggedIn
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "logged out"
	case AwaitingRedirect:
		return "awaiting redirect"
	case LoggedIn:
		return "logged in"
	default:
		return "unknown"
	}
}

// Session is the in-memory access token and login state.
type Session struct {
	mu    sync.RWMutex
	state State
	token string
}

// NewSession returns a logged out [Session].
func NewSession() *Session {
	return &Session{state: LoggedOut}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the current access token, empty unless logged in.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) LoggedIn() bool {
	return s.State() == LoggedIn
}

func (s *Session) awaitRedirect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != LoggedIn {
		s.state = AwaitingRedirect
	}
}

// abandon drops a pending redirect without touching an existing login.
func (s *Session) abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == AwaitingRedirect {
		s.state = LoggedOut
	}
}

func (s *Session) adopt(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.state = LoggedIn
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.state = LoggedOut
}
