// Package signal maintains the advisory evidence flags consulted by the
// classifier: assistant-extension presence, recent suggestion activity, and
// recent code-shaped clipboard captures. Flags decay on their own; each is
// stored as an armed-until deadline evaluated against the clock rather than
// flipped back by a scheduled callback, so decay is testable with a fake
// clock.
package signal

import (
	"sync"
	"time"

	"github.com/okaneo/handprint/internal/event"
)

// Suggestion decay windows. Larger, more specific evidence keeps the flag
// armed longer.
const (
	decayMultiLine   = 2 * time.Second
	decayLargeInsert = 2 * time.Second
	decayReplacement = 2 * time.Second
	decayBurst       = 1500 * time.Millisecond
	decayCursorMove  = 500 * time.Millisecond

	// A clipboard capture arms the paste flag only after a short delay, so
	// the actual paste event has landed by the time the flag reads true.
	pasteArmDelay = 100 * time.Millisecond
	pasteWindow   = 5 * time.Second

	// Thresholds for the suggestion arming conditions.
	largeInsertLen  = 30
	burstInsertLen  = 10
	burstWindow     = 500 * time.Millisecond
	assistInsertLen = 20
)

// State holds the collector-maintained flags read by the classifier.
// Collectors mutate it; the classifier only reads (except for consuming the
// one-shot paste flag).
type State struct {
	mu sync.Mutex

	now func() time.Time

	assistantActive bool
	suggestionUntil time.Time
	pasteArmedAt    time.Time
	pasteUntil      time.Time

	lastChange time.Time
}

// NewState returns a State using the real clock.
func NewState() *State {
	return NewStateWithClock(time.Now)
}

// NewStateWithClock returns a State driven by the given clock.
func NewStateWithClock(now func() time.Time) *State {
	return &State{now: now}
}

// SetAssistantActive records whether a known AI-assistant extension is
// installed and active. Recomputed by the assistant watcher on every
// extension-state change.
func (s *State) SetAssistantActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assistantActive = active
}

// AssistantActive reports the last known assistant-extension state.
func (s *State) AssistantActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assistantActive
}

// ArmSuggestion marks AI-suggestion activity for the given window. A new arm
// supersedes a pending shorter one but never shortens an existing window.
func (s *State) ArmSuggestion(window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until := s.now().Add(window)
	if until.After(s.suggestionUntil) {
		s.suggestionUntil = until
	}
}

// SuggestionActive reports whether the suggestion flag is currently armed.
func (s *State) SuggestionActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Before(s.suggestionUntil)
}

// ObserveChange inspects an edit event for the shapes that indicate an AI
// suggestion was just accepted and arms the suggestion flag accordingly:
// multi-line insertions, large single insertions, replacements that grow the
// text, and insertion bursts following rapid prior typing.
func (s *State) ObserveChange(ev event.Event) {
	if len(ev.Changes) == 0 {
		return
	}
	c := ev.Changes[0]

	multiLine := c.Lines() > 1 && c.ReplacedLen == 0
	largeInsert := len(c.Text) > largeInsertLen && c.ReplacedLen == 0
	replacement := c.ReplacedLen > 0 && len(c.Text) > c.ReplacedLen

	switch {
	case multiLine:
		s.ArmSuggestion(decayMultiLine)
	case largeInsert:
		s.ArmSuggestion(decayLargeInsert)
	case replacement:
		s.ArmSuggestion(decayReplacement)
	}

	s.mu.Lock()
	now := s.now()
	rapidTyping := !s.lastChange.IsZero() && now.Sub(s.lastChange) < burstWindow
	s.lastChange = now
	assistant := s.assistantActive
	s.mu.Unlock()

	if rapidTyping && len(c.Text) > burstInsertLen {
		s.ArmSuggestion(decayBurst)
	}
	if assistant && len(c.Text) > assistInsertLen && c.ReplacedLen == 0 {
		s.ArmSuggestion(decayLargeInsert)
	}
}

// ObserveCursorMove briefly arms the suggestion flag when an assistant is
// active, since cursor jumps often follow accepted completions.
func (s *State) ObserveCursorMove() {
	if s.AssistantActive() {
		s.ArmSuggestion(decayCursorMove)
	}
}

// ArmPaste marks that the clipboard holds code-shaped content. The flag
// reads true from pasteArmDelay after now until pasteWindow later, so a
// single capture cannot bias classification indefinitely.
func (s *State) ArmPaste() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pasteArmedAt = s.now().Add(pasteArmDelay)
	s.pasteUntil = s.pasteArmedAt.Add(pasteWindow)
}

// PasteDetected reports whether the paste flag is currently armed.
func (s *State) PasteDetected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	return !now.Before(s.pasteArmedAt) && now.Before(s.pasteUntil) && !s.pasteArmedAt.IsZero()
}

// ConsumePaste reports and clears the paste flag. The flag is one-shot: the
// first classification pass that reads it true disarms it.
func (s *State) ConsumePaste() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	armed := !now.Before(s.pasteArmedAt) && now.Before(s.pasteUntil) && !s.pasteArmedAt.IsZero()
	if armed {
		s.pasteArmedAt = time.Time{}
		s.pasteUntil = time.Time{}
	}
	return armed
}
