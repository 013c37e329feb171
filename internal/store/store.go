// Package store persists the session log, badge list, and daily goal as a
// single JSON file with whole-file overwrite semantics. The log is
// logically append-only in memory; every save rewrites the file atomically
// via a temp file + os.Rename. One engine instance owns a given path.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/okaneo/handprint/internal/achievement"
	"github.com/okaneo/handprint/internal/stats"
)

// DefaultDailyGoal is the daily coding goal in minutes.
const DefaultDailyGoal = 120

// fileData is the on-disk layout.
type fileData struct {
	Sessions     []stats.Record            `json:"sessions"`
	Achievements []achievement.Achievement `json:"achievements"`
	DailyGoal    int                       `json:"dailyGoal"`
}

// exportData is the snapshot layout produced by Export.
type exportData struct {
	Sessions     []stats.Record            `json:"sessions"`
	Achievements []achievement.Achievement `json:"achievements"`
	DailyGoal    int                       `json:"dailyGoal"`
	ExportDate   time.Time                 `json:"exportDate"`
}

// Store owns the durable tracking data at a single path.
type Store struct {
	path string
	data fileData
}

// DefaultPath returns the data file location under the XDG data directory:
// $XDG_DATA_HOME/handprint/data.json or ~/.local/share/handprint/data.json.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "handprint", "data.json"), nil
}

// Open loads the store at path, creating parent directories as needed.
// A missing, unreadable, or malformed file is not an error: the store
// falls back to an empty log, the default badge catalog, and the default
// goal. Availability of tracking is valued over strict correctness of any
// single session's numbers.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	s := &Store{path: path}
	s.load()
	return s, nil
}

func (s *Store) load() {
	s.data = fileData{DailyGoal: DefaultDailyGoal}
	raw, err := os.ReadFile(s.path)
	if err == nil {
		var parsed fileData
		if jsonErr := json.Unmarshal(raw, &parsed); jsonErr == nil {
			s.data = parsed
		}
	}
	if s.data.DailyGoal <= 0 {
		s.data.DailyGoal = DefaultDailyGoal
	}
	if len(s.data.Achievements) == 0 {
		s.data.Achievements = achievement.Defaults()
	}
	if s.data.Sessions == nil {
		s.data.Sessions = []stats.Record{}
	}
}

// save rewrites the whole file atomically.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist tracking data: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "data-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist tracking data: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist tracking data: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist tracking data: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to persist tracking data: %w", err)
	}
	return nil
}

// Append adds one record to the log and saves. Records are never mutated
// after this point.
func (s *Store) Append(rec stats.Record) error {
	s.data.Sessions = append(s.data.Sessions, rec)
	return s.save()
}

// Records returns the session log. Callers must not mutate the result.
func (s *Store) Records() []stats.Record {
	return s.data.Sessions
}

// Today returns the aggregate for now's calendar day.
func (s *Store) Today(now time.Time) stats.Aggregate {
	return stats.Today(s.data.Sessions, now)
}

// Week returns the aggregate from the start of now's week.
func (s *Store) Week(now time.Time) stats.Aggregate {
	return stats.Week(s.data.Sessions, now)
}

// Month returns the aggregate from the first of now's month.
func (s *Store) Month(now time.Time) stats.Aggregate {
	return stats.Month(s.data.Sessions, now)
}

// ResetToday removes every record dated on now's calendar day. Irreversible.
// Already-unlocked achievements are untouched.
func (s *Store) ResetToday(now time.Time) error {
	kept := s.data.Sessions[:0]
	for _, r := range s.data.Sessions {
		if !stats.SameDay(now, r.Date) {
			kept = append(kept, r)
		}
	}
	s.data.Sessions = kept
	return s.save()
}

// Goal returns the daily goal in minutes.
func (s *Store) Goal() int {
	return s.data.DailyGoal
}

// ErrInvalidGoal is returned for a non-positive goal value. Validation
// happens at the input boundary; the core never sees a bad goal.
var ErrInvalidGoal = errors.New("daily goal must be a positive number of minutes")

// SetGoal stores a new daily goal in minutes.
func (s *Store) SetGoal(minutes int) error {
	if minutes <= 0 {
		return ErrInvalidGoal
	}
	s.data.DailyGoal = minutes
	return s.save()
}

// Achievements returns the badge list. The evaluator mutates entries in
// place; call SaveAchievements afterwards to persist unlocks.
func (s *Store) Achievements() []achievement.Achievement {
	return s.data.Achievements
}

// SaveAchievements persists the current badge list.
func (s *Store) SaveAchievements() error {
	return s.save()
}

// Export writes a snapshot of the full log, badge list, and goal, stamped
// with the export time. Read path only; no mutation.
func (s *Store) Export(w io.Writer, now time.Time) error {
	snap := exportData{
		Sessions:     s.data.Sessions,
		Achievements: s.data.Achievements,
		DailyGoal:    s.data.DailyGoal,
		ExportDate:   now,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
