package tui

import "sync"

// StatusLine holds the latest warning. Controller calls run inside tea.Cmds,
// so writes come from other goroutines than View.
type StatusLine struct {
	mu  sync.Mutex
	msg string
}

func (s *StatusLine) Warn(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = msg
}

func (s *StatusLine) Clear() {
	s.Warn("")
}

func (s *StatusLine) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msg
}
