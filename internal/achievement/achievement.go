// Package achievement defines the badge catalog and the rule evaluation
// that unlocks badges when today's aggregate first crosses a threshold.
package achievement

import (
	"time"

	"github.com/okaneo/handprint/internal/stats"
)

// Achievement is one badge. Identity is the ID; Unlocked flips false→true
// exactly once and never reverts.
type Achievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// predicates holds the unlock rule for each known achievement ID, evaluated
// against today's aggregate.
var predicates = map[string]func(stats.Aggregate) bool{
	"first-hour": func(a stats.Aggregate) bool {
		return a.HumanTime+a.AITime >= 3600
	},
	"pure-human": func(a stats.Aggregate) bool {
		return a.HumanTime >= 1800 && a.AITime == 0
	},
}

// Defaults returns the locked badge catalog.
func Defaults() []Achievement {
	return []Achievement{
		{
			ID:          "first-hour",
			Name:        "First Hour",
			Description: "Code for your first hour",
			Icon:        "⏰",
		},
		{
			ID:          "pure-human",
			Name:        "Pure Human",
			Description: "Code for 30 minutes without AI assistance",
			Icon:        "🧠",
		},
	}
}

// Evaluate checks every still-locked achievement against today's aggregate,
// unlocking in place those whose predicate holds, and returns the newly
// unlocked ones in evaluation order. Unlocking is monotonic: a predicate
// turning false later (e.g. after a daily reset) never re-locks a badge.
func Evaluate(list []Achievement, today stats.Aggregate, now time.Time) []Achievement {
	var unlocked []Achievement
	for i := range list {
		if list[i].Unlocked {
			continue
		}
		pred, ok := predicates[list[i].ID]
		if !ok || !pred(today) {
			continue
		}
		ts := now
		list[i].Unlocked = true
		list[i].UnlockedAt = &ts
		unlocked = append(unlocked, list[i])
	}
	return unlocked
}
