package signal

import (
	"os/exec"
	"runtime"
	"strings"
)

// assistantIdentifiers is the allow-list of known AI-assistant extension and
// tool identifiers. Matching is by case-insensitive substring so both full
// extension IDs ("GitHub.copilot") and bare tool names ("copilot") hit.
var assistantIdentifiers = []string{
	"github.copilot",
	"copilot",
	"tabnine",
	"kite",
	"codewhisperer",
	"cursor",
	"claude",
	"codeium",
	"windsurf",
	"aider",
}

// assistantProcesses maps executable names to scan for when no host reports
// extension state, e.g. in the standalone filesystem-watch mode.
var assistantProcesses = []string{
	"claude",
	"cursor",
	"Cursor",
	"copilot-agent",
	"github-copilot",
	"aider",
	"codex",
}

// AssistantWatcher recomputes the assistant-extension flag on State whenever
// the host reports an extension-state change.
type AssistantWatcher struct {
	state *State
	probe func(name string) bool
}

// NewAssistantWatcher returns a watcher that updates the given State.
func NewAssistantWatcher(state *State) *AssistantWatcher {
	return &AssistantWatcher{state: state, probe: processRunning}
}

// Recompute sets the assistant flag from a host-reported list of active
// extension identifiers.
func (w *AssistantWatcher) Recompute(active []string) {
	for _, id := range active {
		if IsAssistantIdentifier(id) {
			w.state.SetAssistantActive(true)
			return
		}
	}
	w.state.SetAssistantActive(false)
}

// ScanProcesses checks for running assistant tool processes and updates the
// flag. Fallback for hosts that expose no extension registry. A failed scan
// leaves the flag at its last known value.
func (w *AssistantWatcher) ScanProcesses() {
	if runtime.GOOS == "windows" {
		return
	}
	for _, name := range assistantProcesses {
		if w.probe(name) {
			w.state.SetAssistantActive(true)
			return
		}
	}
	w.state.SetAssistantActive(false)
}

// IsAssistantIdentifier reports whether id names a known AI assistant.
func IsAssistantIdentifier(id string) bool {
	lower := strings.ToLower(id)
	for _, known := range assistantIdentifiers {
		if strings.Contains(lower, known) {
			return true
		}
	}
	return false
}

func processRunning(name string) bool {
	return exec.Command("pgrep", "-x", name).Run() == nil
}
