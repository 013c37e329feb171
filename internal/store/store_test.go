package store_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/okaneo/handprint/internal/stats"
	"github.com/okaneo/handprint/internal/store"
)

func openTemp(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "handprint", "data.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

// generateTime produces an arbitrary time.Time value, truncated to second
// precision to match JSON round-trip fidelity.
func generateTime(t *rapid.T) time.Time {
	sec := rapid.Int64Range(0, 1_700_000_000).Draw(t, "unix_sec")
	return time.Unix(sec, 0).UTC()
}

func generateRecord(t *rapid.T) stats.Record {
	numLangs := rapid.IntRange(0, 3).Draw(t, "num_langs")
	langs := make([]stats.LanguageTime, numLangs)
	for i := range langs {
		langs[i] = stats.LanguageTime{
			Language: rapid.StringMatching(`[a-z]{2,12}`).Draw(t, "lang"),
			Time:     rapid.IntRange(0, 10000).Draw(t, "lang_time"),
		}
	}
	human := rapid.IntRange(0, 100000).Draw(t, "human")
	ai := rapid.IntRange(0, 100000).Draw(t, "ai")
	return stats.Record{
		ID:           rapid.StringMatching(`[a-f0-9-]{8,36}`).Draw(t, "id"),
		Date:         generateTime(t),
		HumanTime:    human,
		AITime:       ai,
		TotalTime:    float64(human + ai),
		Languages:    langs,
		Productivity: rapid.IntRange(0, 100).Draw(t, "productivity"),
	}
}

func TestRecordPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	rapid.Check(t, func(t *rapid.T) {
		s, err := store.Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		original := generateRecord(t)
		before := len(s.Records())

		if err := s.Append(original); err != nil {
			t.Fatalf("Append: %v", err)
		}

		// Reopen to force a read from disk.
		reopened, err := store.Open(path)
		if err != nil {
			t.Fatalf("reopen: %v", err)
		}
		records := reopened.Records()
		if len(records) != before+1 {
			t.Fatalf("record count: got %d, want %d", len(records), before+1)
		}

		got := records[len(records)-1]
		if got.ID != original.ID {
			t.Errorf("ID mismatch: got %q, want %q", got.ID, original.ID)
		}
		if !got.Date.Equal(original.Date) {
			t.Errorf("Date mismatch: got %v, want %v", got.Date, original.Date)
		}
		if got.HumanTime != original.HumanTime || got.AITime != original.AITime {
			t.Errorf("time mismatch: got %d/%d, want %d/%d",
				got.HumanTime, got.AITime, original.HumanTime, original.AITime)
		}
		if got.TotalTime != original.TotalTime {
			t.Errorf("TotalTime mismatch: got %v, want %v", got.TotalTime, original.TotalTime)
		}
		if got.Productivity != original.Productivity {
			t.Errorf("Productivity mismatch: got %d, want %d", got.Productivity, original.Productivity)
		}
		if len(got.Languages) != len(original.Languages) {
			t.Fatalf("Languages length mismatch: got %d, want %d",
				len(got.Languages), len(original.Languages))
		}
		for i, lang := range original.Languages {
			if got.Languages[i] != lang {
				t.Errorf("Languages[%d] mismatch: got %+v, want %+v", i, got.Languages[i], lang)
			}
		}
	})
}

func TestOpenMissingFileFallsBackToDefaults(t *testing.T) {
	s := openTemp(t)

	if len(s.Records()) != 0 {
		t.Errorf("expected empty log, got %d records", len(s.Records()))
	}
	if s.Goal() != store.DefaultDailyGoal {
		t.Errorf("goal: got %d, want %d", s.Goal(), store.DefaultDailyGoal)
	}
	if len(s.Achievements()) == 0 {
		t.Error("expected the seeded badge catalog")
	}
}

func TestOpenMalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("malformed data must not be fatal: %v", err)
	}
	if len(s.Records()) != 0 || s.Goal() != store.DefaultDailyGoal {
		t.Errorf("expected defaults, got %d records, goal %d", len(s.Records()), s.Goal())
	}
}

func TestAppendThenTodayReflectsExactlyOnce(t *testing.T) {
	s := openTemp(t)
	now := time.Now()

	rec := stats.Record{ID: "r1", Date: now, HumanTime: 100, AITime: 40, TotalTime: 160, Productivity: 70}
	if err := s.Append(rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	today := s.Today(now)
	if today.HumanTime != 100 || today.AITime != 40 {
		t.Errorf("today after one flush: %+v", today)
	}

	// Querying again must not double count.
	again := s.Today(now)
	if again != today {
		t.Errorf("repeat query changed the aggregate: %+v vs %+v", again, today)
	}
}

func TestResetTodayKeepsOtherDays(t *testing.T) {
	s := openTemp(t)
	now := time.Now()

	_ = s.Append(stats.Record{ID: "today", Date: now, HumanTime: 50})
	_ = s.Append(stats.Record{ID: "old", Date: now.AddDate(0, 0, -3), HumanTime: 70})

	if err := s.ResetToday(now); err != nil {
		t.Fatalf("ResetToday: %v", err)
	}

	records := s.Records()
	if len(records) != 1 || records[0].ID != "old" {
		t.Errorf("after reset: %+v", records)
	}
	if got := s.Today(now); got.HumanTime != 0 {
		t.Errorf("today after reset: %+v", got)
	}
}

func TestSetGoalValidation(t *testing.T) {
	s := openTemp(t)

	for _, bad := range []int{0, -5} {
		if err := s.SetGoal(bad); err == nil {
			t.Errorf("SetGoal(%d): expected error", bad)
		}
	}
	if s.Goal() != store.DefaultDailyGoal {
		t.Errorf("rejected goal must not stick: %d", s.Goal())
	}

	if err := s.SetGoal(90); err != nil {
		t.Fatalf("SetGoal(90): %v", err)
	}
	if s.Goal() != 90 {
		t.Errorf("goal: got %d, want 90", s.Goal())
	}
}

func TestExportSnapshot(t *testing.T) {
	s := openTemp(t)
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	_ = s.Append(stats.Record{ID: "r1", Date: now, HumanTime: 10})

	var buf bytes.Buffer
	if err := s.Export(&buf, now); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var snap struct {
		Sessions     []stats.Record    `json:"sessions"`
		DailyGoal    int               `json:"dailyGoal"`
		ExportDate   time.Time         `json:"exportDate"`
		Achievements []json.RawMessage `json:"achievements"`
	}
	if err := json.Unmarshal(buf.Bytes(), &snap); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(snap.Sessions) != 1 || snap.DailyGoal != store.DefaultDailyGoal {
		t.Errorf("snapshot: %d sessions, goal %d", len(snap.Sessions), snap.DailyGoal)
	}
	if !snap.ExportDate.Equal(now) {
		t.Errorf("export date: got %v, want %v", snap.ExportDate, now)
	}
	if len(snap.Achievements) == 0 {
		t.Error("snapshot missing achievements")
	}

	// Export is a read path: the log must be unchanged.
	if len(s.Records()) != 1 {
		t.Errorf("export mutated the log: %d records", len(s.Records()))
	}
}
