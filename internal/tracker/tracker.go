// Package tracker owns the rolling session: the current mode, the idle
// deadline, the one-tick-per-second time accounting, and the flush
// lifecycle that turns sessions into durable records.
package tracker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okaneo/handprint/internal/achievement"
	"github.com/okaneo/handprint/internal/classify"
	"github.com/okaneo/handprint/internal/event"
	"github.com/okaneo/handprint/internal/signal"
	"github.com/okaneo/handprint/internal/stats"
	"github.com/okaneo/handprint/internal/store"
)

// Mode is the attribution state of the current second.
type Mode int

const (
	Idle Mode = iota
	Human
	AI
)

func (m Mode) String() string {
	switch m {
	case Human:
		return "human"
	case AI:
		return "ai"
	default:
		return "idle"
	}
}

// ParseMode maps a mode name to its value.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "human":
		return Human, true
	case "ai":
		return AI, true
	case "idle":
		return Idle, true
	}
	return Idle, false
}

// DefaultIdleTimeout is how long without activity before the mode drops to
// idle.
const DefaultIdleTimeout = 300 * time.Second

// flushInterval is the session wall-time after which the session is flushed
// to the store. Short on purpose: frequent small records bound the loss
// window on crash.
const flushInterval = 30 * time.Second

// achievementInterval is how often badges are re-evaluated while running.
const achievementInterval = time.Minute

// session is the in-progress accounting unit. Reset to zero on every flush,
// preserving only the mode.
type session struct {
	start        time.Time
	humanSeconds int
	aiSeconds    int
	mode         Mode
	lastActivity time.Time
	languages    map[string]int
}

// Snapshot is the externally visible view of the current session.
type Snapshot struct {
	HumanSeconds int            `json:"humanTimeSeconds"`
	AISeconds    int            `json:"aiTimeSeconds"`
	Mode         string         `json:"currentMode"`
	Languages    []LanguageTick `json:"languages"`
}

// LanguageTick is one language's accumulated tick count in the snapshot.
type LanguageTick struct {
	Language string `json:"language"`
	Ticks    int    `json:"ticks"`
}

// Hooks are optional observer callbacks, invoked outside the tracker lock.
type Hooks struct {
	ModeChanged func(Mode)
	Flushed     func(stats.Record, error)
	Unlocked    func(achievement.Achievement)
}

// Tracker is the session state machine. All mutation happens under one
// mutex: edit events, tickers, and idle expiry serialize through it, so each
// event is fully classified and applied before the next begins.
type Tracker struct {
	mu sync.Mutex

	now          func() time.Time
	enabled      bool
	sess         session
	idleTimeout  time.Duration
	idleDeadline time.Time

	classifier *classify.Classifier
	signals    *signal.State
	store      *store.Store
	hooks      Hooks
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock injects a clock, used by tests to advance simulated time.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIdleTimeout overrides the idle timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.idleTimeout = d }
}

// WithHooks installs observer callbacks.
func WithHooks(h Hooks) Option {
	return func(t *Tracker) { t.hooks = h }
}

// New returns an enabled Tracker with a fresh idle session.
func New(cls *classify.Classifier, signals *signal.State, st *store.Store, opts ...Option) *Tracker {
	t := &Tracker{
		now:         time.Now,
		enabled:     true,
		idleTimeout: DefaultIdleTimeout,
		classifier:  cls,
		signals:     signals,
		store:       st,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.sess = newSession(t.now(), Idle)
	return t
}

func newSession(start time.Time, mode Mode) session {
	return session{
		start:        start,
		mode:         mode,
		lastActivity: start,
		languages:    make(map[string]int),
	}
}

// HandleEdit classifies one edit event and applies the verdict: the mode
// becomes human or ai, the idle deadline restarts, and the event's language
// gains a tick.
func (t *Tracker) HandleEdit(ev event.Event) {
	t.mu.Lock()
	if !t.enabled || len(ev.Changes) == 0 {
		t.mu.Unlock()
		return
	}

	now := t.now()
	t.idleDeadline = now.Add(t.idleTimeout)

	verdict := t.classifier.Classify(ev, t.signals)
	prev := t.sess.mode
	if verdict == classify.AI {
		t.sess.mode = AI
	} else {
		t.sess.mode = Human
	}
	t.sess.lastActivity = now
	if ev.Language != "" {
		t.sess.languages[ev.Language]++
	}
	changed := t.sess.mode != prev
	mode := t.sess.mode
	t.mu.Unlock()

	// Feed the suggestion watcher after classification so an arm from this
	// event influences the next one, not itself.
	t.signals.ObserveChange(ev)

	if changed && t.hooks.ModeChanged != nil {
		t.hooks.ModeChanged(mode)
	}
}

// HandleActivity restarts the idle deadline without changing the mode.
// Cursor moves and focus changes count as presence, not as authorship.
func (t *Tracker) HandleActivity() {
	t.mu.Lock()
	if t.enabled {
		t.idleDeadline = t.now().Add(t.idleTimeout)
	}
	t.mu.Unlock()
	t.signals.ObserveCursorMove()
}

// ForceMode sets the mode directly, bypassing the classifier, and restarts
// the idle deadline.
func (t *Tracker) ForceMode(mode Mode) {
	t.mu.Lock()
	now := t.now()
	t.sess.mode = mode
	t.sess.lastActivity = now
	t.idleDeadline = now.Add(t.idleTimeout)
	t.mu.Unlock()

	if t.hooks.ModeChanged != nil {
		t.hooks.ModeChanged(mode)
	}
}

// Tick advances the accounting by one second. The idle deadline is checked
// first, so a second that falls past the deadline is never attributed. A
// session past the flush interval is flushed after accrual.
func (t *Tracker) Tick() {
	t.mu.Lock()
	if !t.enabled {
		t.mu.Unlock()
		return
	}
	now := t.now()

	wentIdle := false
	if !t.idleDeadline.IsZero() && !now.Before(t.idleDeadline) && t.sess.mode != Idle {
		t.sess.mode = Idle
		wentIdle = true
	}

	switch t.sess.mode {
	case Human:
		t.sess.humanSeconds++
	case AI:
		t.sess.aiSeconds++
	}

	var flushed *stats.Record
	if now.Sub(t.sess.start) >= flushInterval {
		rec := t.rotateLocked(now)
		flushed = &rec
	}
	t.mu.Unlock()

	if wentIdle && t.hooks.ModeChanged != nil {
		t.hooks.ModeChanged(Idle)
	}
	if flushed != nil {
		t.persist(*flushed)
	}
}

// Flush closes out the current session into a durable record immediately.
func (t *Tracker) Flush() {
	t.mu.Lock()
	rec := t.rotateLocked(t.now())
	t.mu.Unlock()
	t.persist(rec)
}

// rotateLocked builds the record for the current session and resets the
// accumulators to zero, preserving the mode. A zero-valued session still
// yields a record. Caller holds t.mu.
func (t *Tracker) rotateLocked(now time.Time) stats.Record {
	languages := make([]stats.LanguageTime, 0, len(t.sess.languages))
	for lang, ticks := range t.sess.languages {
		languages = append(languages, stats.LanguageTime{Language: lang, Time: ticks})
	}
	sort.Slice(languages, func(i, j int) bool {
		return languages[i].Language < languages[j].Language
	})

	rec := stats.Record{
		ID:           uuid.New().String(),
		Date:         t.sess.start,
		HumanTime:    t.sess.humanSeconds,
		AITime:       t.sess.aiSeconds,
		TotalTime:    now.Sub(t.sess.start).Seconds(),
		Languages:    languages,
		Productivity: stats.Productivity(t.sess.humanSeconds, t.sess.aiSeconds),
	}

	t.sess = newSession(now, t.sess.mode)
	return rec
}

// persist appends a rotated record to the store. Write failures are
// reported through the hook but never roll back the in-memory reset: data
// loss is accepted over blocking the editing flow.
func (t *Tracker) persist(rec stats.Record) {
	err := t.store.Append(rec)
	if t.hooks.Flushed != nil {
		t.hooks.Flushed(rec, err)
	}
}

// Enabled reports whether tracking is on.
func (t *Tracker) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// SetEnabled toggles tracking. Disabling flushes the session and stops the
// idle deadline; enabling begins a fresh zeroed session.
func (t *Tracker) SetEnabled(on bool) {
	t.mu.Lock()
	if on == t.enabled {
		t.mu.Unlock()
		return
	}
	if !on {
		t.enabled = false
		t.idleDeadline = time.Time{}
		rec := t.rotateLocked(t.now())
		t.mu.Unlock()
		t.persist(rec)
		return
	}
	t.enabled = true
	t.sess = newSession(t.now(), t.sess.mode)
	t.mu.Unlock()
}

// Toggle flips tracking and returns the new state.
func (t *Tracker) Toggle() bool {
	on := !t.Enabled()
	t.SetEnabled(on)
	return on
}

// Snapshot returns the current session view with languages sorted by name.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	languages := make([]LanguageTick, 0, len(t.sess.languages))
	for lang, ticks := range t.sess.languages {
		languages = append(languages, LanguageTick{Language: lang, Ticks: ticks})
	}
	sort.Slice(languages, func(i, j int) bool {
		return languages[i].Language < languages[j].Language
	})

	return Snapshot{
		HumanSeconds: t.sess.humanSeconds,
		AISeconds:    t.sess.aiSeconds,
		Mode:         t.sess.mode.String(),
		Languages:    languages,
	}
}

// CheckAchievements evaluates the badge rules against today's aggregate and
// persists and reports any new unlocks.
func (t *Tracker) CheckAchievements() []achievement.Achievement {
	now := t.now()
	unlocked := achievement.Evaluate(t.store.Achievements(), t.store.Today(now), now)
	if len(unlocked) > 0 {
		_ = t.store.SaveAchievements()
		if t.hooks.Unlocked != nil {
			for _, a := range unlocked {
				t.hooks.Unlocked(a)
			}
		}
	}
	return unlocked
}

// Run drives the tracker with wall-clock tickers until ctx is cancelled:
// the 1 Hz accounting tick and the periodic achievement check. A final
// flush runs on the way out.
func (t *Tracker) Run(ctx context.Context) {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	badges := time.NewTicker(achievementInterval)
	defer badges.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Flush()
			return
		case <-tick.C:
			t.Tick()
		case <-badges.C:
			t.CheckAchievements()
		}
	}
}
