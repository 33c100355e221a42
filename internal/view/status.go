package view

import (
	"sync"
	"time"
)

// ClearAfter is how long a status message stays visible.
const ClearAfter = 4 * time.Second

type Severity int

const (
	Info Severity = iota
	Success
	Danger
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Success:
		return "success"
	case Danger:
		return "danger"
	}
	return "unknown"
}

type Message struct {
	Text     string
	Severity Severity
}

type timer interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) timer

func realAfter(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

// Status shows one transient message at a time. Each Show replaces the
// previous message and restarts the clear timer; a replaced message's timer
// never clears its successor.
type Status struct {
	mu      sync.Mutex
	current Message
	visible bool
	gen     uint64
	timer   timer

	after    afterFunc
	onChange func(msg Message, visible bool)
}

// NewStatus returns an empty surface. onChange, if set, is called after every
// show and clear, outside the lock.
func NewStatus(onChange func(msg Message, visible bool)) *Status {
	return &Status{after: realAfter, onChange: onChange}
}

func (s *Status) Show(text string, severity Severity) {
	msg := Message{Text: text, Severity: severity}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.current = msg
	s.visible = true
	s.timer = s.after(ClearAfter, func() { s.clear(gen) })
	s.mu.Unlock()

	s.notify(msg, true)
}

// Current returns the visible message.
func (s *Status) Current() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.visible
}

func (s *Status) clear(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.visible {
		s.mu.Unlock()
		return
	}
	msg := s.current
	s.current = Message{}
	s.visible = false
	s.timer = nil
	s.mu.Unlock()

	s.notify(msg, false)
}

func (s *Status) notify(msg Message, visible bool) {
	if s.onChange != nil {
		s.onChange(msg, visible)
	}
}
