package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// DefaultGoalMl is the daily target used when nothing was stored yet.
	DefaultGoalMl = 2000
	// MinGoalMl is the smallest goal accepted from the user.
	MinGoalMl = 250
	// MaxFactor is the highest hydration multiplier accepted for a drink.
	MaxFactor = 1.2
)

// State is the single persisted document of the tracker.
//
// It is mutated in place by the tracker and written back after every
// mutation. Unknown top-level fields found in a stored document are kept in
// Extra and written back verbatim so newer documents survive a round trip
// through an older binary.
type State struct {
	// ─────────────────────────────
	// User settings
	// ─────────────────────────────

	// GoalMl is the daily hydration target in millilitres.
	GoalMl int

	// ─────────────────────────────
	// Day scope
	// ─────────────────────────────

	// DayKey is the local calendar day ("YYYY-MM-DD") Entries belong to.
	// Empty means no day was recorded yet (stored as null).
	DayKey string

	// Entries in insertion order. Display order is decided by the renderer.
	Entries []Entry

	// Extra holds unknown top-level fields of the stored document.
	Extra map[string]json.RawMessage
}

// Entry is one recorded drink. Entries are never edited, only deleted.
type Entry struct {
	ID        string  `json:"id"`
	TS        int64   `json:"ts"` // epoch milliseconds
	Type      string  `json:"type"`
	Ml        int     `json:"ml"`
	Factor    float64 `json:"factor"`
	Hydration float64 `json:"hydration"`
}

// DefaultState returns a fresh state: default goal, no day, no entries.
func DefaultState() *State {
	return &State{
		GoalMl:  DefaultGoalMl,
		Entries: []Entry{},
	}
}

// Clone returns a deep copy safe to hand to renderers.
func (s *State) Clone() State {
	out := State{
		GoalMl:  s.GoalMl,
		DayKey:  s.DayKey,
		Entries: make([]Entry, len(s.Entries)),
	}
	copy(out.Entries, s.Entries)
	if len(s.Extra) > 0 {
		out.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

var null = []byte("null")

// MarshalJSON writes {goalMl, dayKey, entries} plus any preserved extras.
func (s State) MarshalJSON() ([]byte, error) {
	doc := make(map[string]json.RawMessage, 3+len(s.Extra))
	for k, v := range s.Extra {
		doc[k] = v
	}

	goal, err := json.Marshal(s.GoalMl)
	if err != nil {
		return nil, err
	}
	doc["goalMl"] = goal

	if s.DayKey == "" {
		doc["dayKey"] = null
	} else {
		day, err := json.Marshal(s.DayKey)
		if err != nil {
			return nil, err
		}
		doc["dayKey"] = day
	}

	entries := s.Entries
	if entries == nil {
		entries = []Entry{}
	}
	list, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	doc["entries"] = list

	return json.Marshal(doc)
}

// UnmarshalJSON merges the document over DefaultState: missing or null
// fields keep their default, unknown fields land in Extra.
func (s *State) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("state document is null")
	}

	merged := DefaultState()
	for key, raw := range doc {
		isNull := bytes.Equal(bytes.TrimSpace(raw), null)
		switch key {
		case "goalMl":
			if isNull {
				continue
			}
			var goal float64
			if err := json.Unmarshal(raw, &goal); err != nil {
				return fmt.Errorf("goalMl: %w", err)
			}
			merged.GoalMl = roundHalfUp(goal)
		case "dayKey":
			if isNull {
				continue
			}
			if err := json.Unmarshal(raw, &merged.DayKey); err != nil {
				return fmt.Errorf("dayKey: %w", err)
			}
		case "entries":
			if isNull {
				continue
			}
			if err := json.Unmarshal(raw, &merged.Entries); err != nil {
				return fmt.Errorf("entries: %w", err)
			}
		default:
			if merged.Extra == nil {
				merged.Extra = make(map[string]json.RawMessage)
			}
			merged.Extra[key] = append(json.RawMessage(nil), raw...)
		}
	}

	*s = *merged
	return nil
}
