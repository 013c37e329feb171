package signal

import (
	"context"
	"regexp"
	"time"

	"github.com/atotto/clipboard"
)

// clipboardPollInterval is how often the watcher samples the clipboard.
const clipboardPollInterval = 2 * time.Second

// minClipboardLen filters out short captures that are unlikely to be code.
const minClipboardLen = 50

// codePatterns match clipboard text that looks like source code: declarations,
// imports, variable bindings, tags, and multi-line braced blocks.
var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`function\s+\w+\s*\(`),
	regexp.MustCompile(`class\s+\w+`),
	regexp.MustCompile(`import\s+.+from`),
	regexp.MustCompile(`const\s+\w+\s*=`),
	regexp.MustCompile(`let\s+\w+\s*=`),
	regexp.MustCompile(`var\s+\w+\s*=`),
	regexp.MustCompile(`def\s+\w+\s*\(`),
	regexp.MustCompile(`func\s+\w+\s*\(`),
	regexp.MustCompile(`public\s+class`),
	regexp.MustCompile(`private\s+\w+`),
	regexp.MustCompile(`<\w+.*>`),
	regexp.MustCompile(`(?s)\{\s*\n.*\n\s*\}`),
}

// LooksLikeCode reports whether the text matches any of the code patterns.
func LooksLikeCode(text string) bool {
	for _, p := range codePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// ClipboardWatcher samples the system clipboard on a fixed interval and arms
// the paste flag on State when a new, sufficiently long, code-shaped capture
// appears. Read failures are ignored; the flag simply keeps its last value.
type ClipboardWatcher struct {
	state *State
	read  func() (string, error)

	last string
}

// NewClipboardWatcher returns a watcher backed by the system clipboard.
func NewClipboardWatcher(state *State) *ClipboardWatcher {
	return &ClipboardWatcher{state: state, read: clipboard.ReadAll}
}

// Check samples the clipboard once. Exposed for the poll loop and for tests,
// which swap the read function.
func (w *ClipboardWatcher) Check() {
	text, err := w.read()
	if err != nil {
		return
	}
	if text != w.last && len(text) > minClipboardLen && LooksLikeCode(text) {
		w.state.ArmPaste()
	}
	w.last = text
}

// Run polls the clipboard until ctx is cancelled.
func (w *ClipboardWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(clipboardPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check()
		}
	}
}
