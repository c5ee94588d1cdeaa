package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStateJSONRoundTrip(t *testing.T) {
	in := State{
		GoalMl: 2500,
		DayKey: "2023-01-02",
		Entries: []Entry{
			{ID: "a", TS: 1672650000000, Type: "Wasser", Ml: 500, Factor: 1, Hydration: 500},
			{ID: "b", TS: 1672650060000, Type: "Kaffee", Ml: 250, Factor: 0.85, Hydration: 212.5},
		},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out State
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestStateMarshalNullDayKey(t *testing.T) {
	data, err := json.Marshal(*DefaultState())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v, ok := doc["dayKey"]; !ok || v != nil {
		t.Errorf("dayKey = %v (present=%v), want null", v, ok)
	}
	if entries, ok := doc["entries"].([]any); !ok || len(entries) != 0 {
		t.Errorf("entries = %v, want []", doc["entries"])
	}
}

func TestStateUnmarshalMerge(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantGoal  int
		wantDay   string
		wantCount int
		wantExtra []string
	}{
		{name: "missing fields backfilled", doc: `{}`, wantGoal: DefaultGoalMl},
		{name: "null fields keep defaults", doc: `{"goalMl":null,"dayKey":null,"entries":null}`, wantGoal: DefaultGoalMl},
		{name: "partial older document", doc: `{"goalMl":3000}`, wantGoal: 3000},
		{name: "fractional goal rounded", doc: `{"goalMl":2499.5}`, wantGoal: 2500},
		{
			name:      "extras preserved",
			doc:       `{"goalMl":1500,"dayKey":"2024-05-01","entries":[{"id":"x","ts":1,"type":"Tee","ml":200,"factor":1,"hydration":200}],"theme":"dark"}`,
			wantGoal:  1500,
			wantDay:   "2024-05-01",
			wantCount: 1,
			wantExtra: []string{"theme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s State
			if err := json.Unmarshal([]byte(tt.doc), &s); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if s.GoalMl != tt.wantGoal {
				t.Errorf("GoalMl = %d, want %d", s.GoalMl, tt.wantGoal)
			}
			if s.DayKey != tt.wantDay {
				t.Errorf("DayKey = %q, want %q", s.DayKey, tt.wantDay)
			}
			if s.Entries == nil || len(s.Entries) != tt.wantCount {
				t.Errorf("Entries = %v, want %d non-nil entries", s.Entries, tt.wantCount)
			}
			for _, k := range tt.wantExtra {
				if _, ok := s.Extra[k]; !ok {
					t.Errorf("Extra[%q] missing", k)
				}
			}
		})
	}
}

func TestStateExtrasWrittenBack(t *testing.T) {
	var s State
	if err := json.Unmarshal([]byte(`{"goalMl":2000,"theme":"dark"}`), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if doc["theme"] != "dark" {
		t.Errorf("theme = %v, want dark", doc["theme"])
	}
}

func TestStateUnmarshalRejectsGarbage(t *testing.T) {
	for _, doc := range []string{`not json`, `[]`, `null`, `{"entries":"nope"}`, `{"goalMl":"lots"}`} {
		var s State
		if err := json.Unmarshal([]byte(doc), &s); err == nil {
			t.Errorf("Unmarshal(%q) = nil error, want error", doc)
		}
	}
}

func TestStateClone(t *testing.T) {
	s := &State{GoalMl: 2000, DayKey: "2024-01-01", Entries: []Entry{{ID: "a"}}}
	c := s.Clone()
	c.Entries[0].ID = "changed"
	if s.Entries[0].ID != "a" {
		t.Error("Clone() shares the entries slice")
	}
}
