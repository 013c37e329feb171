// Package classify decides, for each edit event, whether the change was
// human-typed or AI-assisted. The decision is an ordered chain of named
// rules evaluated first-match-wins: earlier rules carry the
// highest-confidence evidence (huge multi-line inserts are almost never
// hand-typed), later rules are progressively weaker proxies. Ordering
// embeds a confidence ranking instead of averaging conflicting weak
// signals.
package classify

import (
	"regexp"
	"strings"
	"time"

	"github.com/okaneo/handprint/internal/event"
	"github.com/okaneo/handprint/internal/signal"
)

// Verdict is the binary classification of one edit event.
type Verdict int

const (
	Human Verdict = iota
	AI
)

func (v Verdict) String() string {
	if v == AI {
		return "ai"
	}
	return "human"
}

// DefaultMinInsertionSize is the threshold for a "large" insertion.
const DefaultMinInsertionSize = 30

// DefaultAIPatterns are the tool-name substrings flagged as AI evidence.
var DefaultAIPatterns = []string{
	"copilot", "tabnine", "kite", "codewhisperer", "chatgpt", "claude",
	"bard", "github.copilot", "ai-generated", "auto-generated",
}

// maxHumanCharsPerSec is the typing speed above which input is considered
// inhuman.
const maxHumanCharsPerSec = 20

// burstThreshold is the inter-event gap below which successive large changes
// look like an accepted suggestion rather than typing.
const burstThreshold = 100 * time.Millisecond

// definitionMarkers flag inserted text that carries a complete declaration.
var definitionMarkers = []string{"function", "class", "def ", "public ", "private "}

// generatedPatterns match comment lines that announce machine-written code.
var generatedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/\*\s*(auto[\s-]?generated|generated\s*by|ai[\s-]?generated|copilot)`),
	regexp.MustCompile(`(?i)//\s*(auto[\s-]?generated|generated\s*by|ai[\s-]?generated|copilot|tabnine|kite)`),
	regexp.MustCompile(`(?i)#\s*(auto[\s-]?generated|generated\s*by|ai[\s-]?generated|copilot)`),
	regexp.MustCompile(`(?i)TODO:\s*(generated|auto|copilot|ai)`),
	regexp.MustCompile(`(?i)FIXME:\s*(generated|auto|copilot|ai)`),
	regexp.MustCompile(`(?i)NOTE:\s*(generated|auto|copilot|ai)`),
	regexp.MustCompile(`(?i)/\*\s*eslint-disable.*generated`),
	regexp.MustCompile(`(?i)/\*\s*@generated`),
}

// Classifier evaluates the rule chain. It keeps a single piece of timing
// state between calls: the arrival time of the previous event, used to
// measure inter-event latency and characters-per-second.
type Classifier struct {
	MinInsertionSize  int
	AIPatterns        []string
	DetectLargePastes bool

	now       func() time.Time
	lastEvent time.Time
}

// New returns a Classifier with the default thresholds and patterns.
func New() *Classifier {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Classifier driven by the given clock.
func NewWithClock(now func() time.Time) *Classifier {
	return &Classifier{
		MinInsertionSize:  DefaultMinInsertionSize,
		AIPatterns:        DefaultAIPatterns,
		DetectLargePastes: true,
		now:               now,
	}
}

// rule is one named step in the decision chain. A rule that matches decides
// the verdict is AI; the chain falls through to Human.
type rule struct {
	name  string
	match func(c *Classifier, ev event.Event, signals *signal.State, elapsed time.Duration) bool
}

// rules is the priority chain, strongest evidence first.
var rules = []rule{
	{"large-shape", (*Classifier).largeShape},
	{"burst-timing", (*Classifier).burstTiming},
	{"pending-paste", (*Classifier).pendingPaste},
	{"assistant-coincidence", (*Classifier).assistantCoincidence},
	{"content-signature", (*Classifier).contentSignature},
	{"typing-speed", (*Classifier).typingSpeed},
}

// Classify runs the rule chain over one event. Elapsed time is measured
// against the previous event before the timing state is updated, so the
// speed and burst rules see the true inter-event gap.
func (c *Classifier) Classify(ev event.Event, signals *signal.State) Verdict {
	now := c.now()
	// elapsed < 0 means there is no previous event to measure against; the
	// timing rules do not fire in that case.
	elapsed := time.Duration(-1)
	if !c.lastEvent.IsZero() {
		elapsed = now.Sub(c.lastEvent)
	}
	c.lastEvent = now

	for _, r := range rules {
		if r.match(c, ev, signals, elapsed) {
			return AI
		}
	}
	return Human
}

// largeShape: multi-line or oversized changes, and medium changes that carry
// a complete definition or a balanced brace pair.
func (c *Classifier) largeShape(ev event.Event, _ *signal.State, _ time.Duration) bool {
	for _, ch := range ev.Changes {
		if ch.Lines() > 3 || len(ch.Text) > c.MinInsertionSize*5 {
			return true
		}
		if len(ch.Text) > c.MinInsertionSize && hasDefinitionMarker(ch.Text) {
			return true
		}
	}
	return false
}

// burstTiming: a large combined insertion arriving under 100ms after the
// previous event, typical of an accepted suggestion.
func (c *Classifier) burstTiming(ev event.Event, _ *signal.State, elapsed time.Duration) bool {
	return elapsed >= 0 && elapsed < burstThreshold && ev.InsertedLen() > c.MinInsertionSize
}

// pendingPaste: a recent code-shaped clipboard capture. One-shot; the flag
// is consumed by this check.
func (c *Classifier) pendingPaste(_ event.Event, signals *signal.State, _ time.Duration) bool {
	if !c.DetectLargePastes {
		return false
	}
	return signals.ConsumePaste()
}

// assistantCoincidence: an assistant extension is active and suggestion
// activity was observed within its decay window.
func (c *Classifier) assistantCoincidence(_ event.Event, signals *signal.State, _ time.Duration) bool {
	return signals.AssistantActive() && signals.SuggestionActive()
}

// contentSignature: AI tool names or auto-generated comment markers in the
// inserted text or the surrounding document.
func (c *Classifier) contentSignature(ev event.Event, _ *signal.State, _ time.Duration) bool {
	inserted := strings.ToLower(ev.InsertedText())
	doc := strings.ToLower(ev.DocumentText)
	for _, pattern := range c.AIPatterns {
		p := strings.ToLower(pattern)
		if strings.Contains(inserted, p) || strings.Contains(doc, p) {
			return true
		}
	}
	for _, re := range generatedPatterns {
		if re.MatchString(ev.InsertedText()) || re.MatchString(ev.DocumentText) {
			return true
		}
	}
	return false
}

// typingSpeed: characters-per-second beyond what hands produce. Elapsed is
// floored at 1ms to avoid division blow-up on same-instant events.
func (c *Classifier) typingSpeed(ev event.Event, _ *signal.State, elapsed time.Duration) bool {
	if elapsed < 0 {
		return false
	}
	ms := elapsed.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	cps := float64(ev.InsertedLen()) / float64(ms) * 1000
	return cps > maxHumanCharsPerSec
}

func hasDefinitionMarker(text string) bool {
	for _, marker := range definitionMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return strings.Contains(text, "{") && strings.Contains(text, "}")
}
