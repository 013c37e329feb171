// Package watch is the standalone host adapter: it turns filesystem writes
// in a workspace directory into edit events for the tracker, standing in
// for an editor that would deliver content-change notifications directly.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/okaneo/handprint/internal/event"
)

// maxFileSize caps how much of a file the watcher keeps for diffing.
const maxFileSize = 1 << 20

// languageByExt maps common file extensions to language identifiers.
var languageByExt = map[string]string{
	".go":    "go",
	".ts":    "typescript",
	".tsx":   "typescriptreact",
	".js":    "javascript",
	".jsx":   "javascriptreact",
	".py":    "python",
	".rs":    "rust",
	".java":  "java",
	".kt":    "kotlin",
	".rb":    "ruby",
	".php":   "php",
	".cs":    "csharp",
	".cpp":   "cpp",
	".c":     "c",
	".swift": "swift",
	".sql":   "sql",
	".sh":    "shellscript",
	".yaml":  "yaml",
	".yml":   "yaml",
	".json":  "json",
	".md":    "markdown",
	".html":  "html",
	".css":   "css",
}

// Language returns the language identifier for a file path, or "plaintext".
func Language(path string) string {
	if lang, ok := languageByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "plaintext"
}

// Watcher observes a workspace directory and emits one edit event per file
// write, diffing each new content against the previously seen version.
type Watcher struct {
	dir            string
	ignorePatterns []string

	mu       sync.Mutex
	previous map[string]string
}

// New returns a Watcher for dir with the given ignore globs.
func New(dir string, ignorePatterns []string) *Watcher {
	return &Watcher{
		dir:            dir,
		ignorePatterns: ignorePatterns,
		previous:       make(map[string]string),
	}
}

// Run watches dir recursively until ctx is cancelled, calling emit for every
// edit event it synthesizes. Newly created directories are added to the
// watch; watcher errors are non-fatal.
func (w *Watcher) Run(ctx context.Context, emit func(event.Event)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := filepath.WalkDir(w.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if w.ignored(path) {
				return filepath.SkipDir
			}
			return fw.Add(path)
		}
		return nil
	}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if w.ignored(ev.Name) {
				continue
			}
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if ev.Has(fsnotify.Create) {
					_ = fw.Add(ev.Name)
				}
				continue
			}
			if e, ok := w.observe(ev.Name); ok {
				emit(e)
			}

		case _, ok := <-fw.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// observe reads the file and hands its content to observeText. Returns
// false when the file cannot be read or is too large to diff.
func (w *Watcher) observe(path string) (event.Event, bool) {
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxFileSize {
		return event.Event{}, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return event.Event{}, false
	}
	return w.observeText(path, string(raw))
}

// observeText diffs new content against the cached previous version and
// builds the edit event. Returns false when nothing actually changed.
func (w *Watcher) observeText(path, text string) (event.Event, bool) {
	w.mu.Lock()
	prev, seen := w.previous[path]
	w.previous[path] = text
	w.mu.Unlock()

	if !seen {
		// First sighting establishes the baseline; emitting the whole file
		// as an insertion would misread opening an existing file as one
		// giant edit.
		return event.Event{}, false
	}
	inserted, replaced := Diff(prev, text)
	if inserted == "" && replaced == 0 {
		return event.Event{}, false
	}

	return event.Event{
		Document:     path,
		Language:     Language(path),
		DocumentText: text,
		Changes:      []event.Change{{Text: inserted, ReplacedLen: replaced}},
	}, true
}

// ignored reports whether any path element matches an ignore glob.
func (w *Watcher) ignored(path string) bool {
	rel := path
	if r, err := filepath.Rel(w.dir, path); err == nil {
		rel = r
	}
	for _, pattern := range w.ignorePatterns {
		for _, part := range strings.Split(rel, string(filepath.Separator)) {
			if matched, _ := filepath.Match(pattern, part); matched {
				return true
			}
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Diff reduces an old→new content transition to a single change: the
// inserted middle of the new text and the length of the old middle it
// replaced, found by stripping the common prefix and suffix.
func Diff(oldText, newText string) (inserted string, replacedLen int) {
	if oldText == newText {
		return "", 0
	}

	prefix := 0
	for prefix < len(oldText) && prefix < len(newText) && oldText[prefix] == newText[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(oldText)-prefix && suffix < len(newText)-prefix &&
		oldText[len(oldText)-1-suffix] == newText[len(newText)-1-suffix] {
		suffix++
	}

	return newText[prefix : len(newText)-suffix], len(oldText) - prefix - suffix
}
