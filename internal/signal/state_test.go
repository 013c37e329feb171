package signal

import (
	"testing"
	"time"

	"github.com/okaneo/handprint/internal/event"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSuggestionDecay(t *testing.T) {
	clock := newFakeClock()
	s := NewStateWithClock(clock.now)

	if s.SuggestionActive() {
		t.Fatal("fresh state must not report suggestion activity")
	}

	s.ArmSuggestion(2 * time.Second)
	if !s.SuggestionActive() {
		t.Fatal("armed flag must read true")
	}

	clock.advance(1999 * time.Millisecond)
	if !s.SuggestionActive() {
		t.Error("flag decayed early")
	}

	clock.advance(time.Millisecond)
	if s.SuggestionActive() {
		t.Error("flag must decay at the deadline")
	}
}

func TestArmSuggestionNeverShortens(t *testing.T) {
	clock := newFakeClock()
	s := NewStateWithClock(clock.now)

	s.ArmSuggestion(3 * time.Second)
	s.ArmSuggestion(500 * time.Millisecond)

	clock.advance(2 * time.Second)
	if !s.SuggestionActive() {
		t.Error("a shorter re-arm must not shorten the pending window")
	}
}

func TestObserveChangeArming(t *testing.T) {
	tests := []struct {
		name   string
		change event.Change
		want   bool
	}{
		{"multi-line insertion", event.Change{Text: "a\nb"}, true},
		{"large single insertion", event.Change{Text: "package main // padded to be long enough!"}, true},
		{"growing replacement", event.Change{Text: "longer", ReplacedLen: 2}, true},
		{"shrinking replacement", event.Change{Text: "x", ReplacedLen: 10}, false},
		{"small insertion", event.Change{Text: "x"}, false},
		{"multi-line growing replacement", event.Change{Text: "a\nb", ReplacedLen: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			s := NewStateWithClock(clock.now)
			s.ObserveChange(event.Event{Changes: []event.Change{tt.change}})
			if got := s.SuggestionActive(); got != tt.want {
				t.Errorf("SuggestionActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObserveChangeBurstAfterRapidTyping(t *testing.T) {
	clock := newFakeClock()
	s := NewStateWithClock(clock.now)

	// Two small changes in quick succession, the second carrying >10 chars.
	s.ObserveChange(event.Event{Changes: []event.Change{{Text: "x"}}})
	clock.advance(100 * time.Millisecond)
	s.ObserveChange(event.Event{Changes: []event.Change{{Text: "hello world!"}}})

	if !s.SuggestionActive() {
		t.Error("burst after rapid typing must arm the suggestion flag")
	}
}

func TestObserveCursorMoveRequiresAssistant(t *testing.T) {
	clock := newFakeClock()
	s := NewStateWithClock(clock.now)

	s.ObserveCursorMove()
	if s.SuggestionActive() {
		t.Error("cursor move without an assistant must not arm")
	}

	s.SetAssistantActive(true)
	s.ObserveCursorMove()
	if !s.SuggestionActive() {
		t.Error("cursor move with an assistant active must arm briefly")
	}

	clock.advance(501 * time.Millisecond)
	if s.SuggestionActive() {
		t.Error("cursor-move arm must decay after 500ms")
	}
}

func TestPasteArmDelayAndDecay(t *testing.T) {
	clock := newFakeClock()
	s := NewStateWithClock(clock.now)

	s.ArmPaste()
	if s.PasteDetected() {
		t.Error("paste flag must not read true before the landing delay")
	}

	clock.advance(100 * time.Millisecond)
	if !s.PasteDetected() {
		t.Error("paste flag must read true after the landing delay")
	}

	clock.advance(5 * time.Second)
	if s.PasteDetected() {
		t.Error("paste flag must decay after the window")
	}
}

func TestConsumePasteIsOneShot(t *testing.T) {
	clock := newFakeClock()
	s := NewStateWithClock(clock.now)

	s.ArmPaste()
	clock.advance(time.Second)

	if !s.ConsumePaste() {
		t.Fatal("armed flag must be consumable")
	}
	if s.ConsumePaste() {
		t.Error("second consume must return false")
	}
	if s.PasteDetected() {
		t.Error("consumed flag must read false")
	}
}

func TestLooksLikeCode(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"function greet(name) { return name }", true},
		{"class Point:", true},
		{"import { thing } from './thing'", true},
		{"const answer = 42", true},
		{"def handler(request):", true},
		{"func main() {", true},
		{"<div class=\"box\">", true},
		{"{\n  \"key\": 1\n}", true},
		{"see you at lunch tomorrow", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := LooksLikeCode(tt.text); got != tt.want {
			t.Errorf("LooksLikeCode(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestClipboardWatcherArmsOnCodeCapture(t *testing.T) {
	clock := newFakeClock()
	s := NewStateWithClock(clock.now)
	w := NewClipboardWatcher(s)

	content := "function transform(input) {\n  return input.map(x => x * 2)\n}"
	w.read = func() (string, error) { return content, nil }

	w.Check()
	clock.advance(time.Second)
	if !s.PasteDetected() {
		t.Fatal("code-shaped capture must arm the paste flag")
	}
	s.ConsumePaste()

	// Unchanged clipboard must not re-arm.
	w.Check()
	clock.advance(time.Second)
	if s.PasteDetected() {
		t.Error("unchanged clipboard re-armed the flag")
	}
}

func TestClipboardWatcherIgnoresShortAndNonCode(t *testing.T) {
	clock := newFakeClock()
	s := NewStateWithClock(clock.now)
	w := NewClipboardWatcher(s)

	for _, content := range []string{
		"const x = 1", // code-shaped but under the length threshold
		"this is a long plain sentence without any code shape at all, just words",
	} {
		w.read = func() (string, error) { return content, nil }
		w.Check()
		clock.advance(time.Second)
		if s.PasteDetected() {
			t.Errorf("capture %q must not arm", content)
		}
	}
}

func TestClipboardWatcherIgnoresReadErrors(t *testing.T) {
	clock := newFakeClock()
	s := NewStateWithClock(clock.now)
	w := NewClipboardWatcher(s)

	w.read = func() (string, error) { return "", errTest }
	w.Check() // must not panic or arm
	if s.PasteDetected() {
		t.Error("read failure armed the flag")
	}
}

var errTest = errorString("clipboard unavailable")

type errorString string

func (e errorString) Error() string { return string(e) }

func TestAssistantWatcherRecompute(t *testing.T) {
	s := NewState()
	w := NewAssistantWatcher(s)

	w.Recompute([]string{"golang.go", "GitHub.copilot"})
	if !s.AssistantActive() {
		t.Error("copilot extension must set the flag")
	}

	w.Recompute([]string{"golang.go"})
	if s.AssistantActive() {
		t.Error("flag must clear when no assistant remains")
	}
}

func TestAssistantWatcherScanProcesses(t *testing.T) {
	s := NewState()
	w := NewAssistantWatcher(s)

	w.probe = func(name string) bool { return name == "aider" }
	w.ScanProcesses()
	if !s.AssistantActive() {
		t.Error("running assistant process must set the flag")
	}

	w.probe = func(string) bool { return false }
	w.ScanProcesses()
	if s.AssistantActive() {
		t.Error("flag must clear when no assistant process is found")
	}
}

func TestIsAssistantIdentifier(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"GitHub.copilot", true},
		{"TabNine.tabnine-vscode", true},
		{"Codeium.codeium", true},
		{"golang.go", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAssistantIdentifier(tt.id); got != tt.want {
			t.Errorf("IsAssistantIdentifier(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
