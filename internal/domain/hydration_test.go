package domain

import (
	"testing"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    int
	}{
		{name: "empty", entries: nil, want: 0},
		{name: "single", entries: []Entry{{Hydration: 500}}, want: 500},
		{name: "rounds sum not parts", entries: []Entry{{Hydration: 0.4}, {Hydration: 0.4}}, want: 1},
		{name: "half rounds up", entries: []Entry{{Hydration: 212.5}}, want: 213},
		{name: "mixed", entries: []Entry{{Hydration: 250}, {Hydration: 212.5}, {Hydration: 170}}, want: 633},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{GoalMl: 2000, Entries: tt.entries}
			if got := Total(s); got != tt.want {
				t.Errorf("Total() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		goal     int
		entries  []Entry
		wantPct  float64
		wantFill float64
	}{
		{name: "empty entries", goal: 2000, wantPct: 0, wantFill: 0},
		{name: "half way", goal: 2000, entries: []Entry{{Hydration: 1000}}, wantPct: 50, wantFill: 50},
		{name: "over goal fill capped", goal: 1000, entries: []Entry{{Hydration: 1500}}, wantPct: 150, wantFill: 100},
		{name: "display capped at 999", goal: 250, entries: []Entry{{Hydration: 5000}}, wantPct: 999, wantFill: 100},
		{name: "zero goal", goal: 0, entries: []Entry{{Hydration: 100}}, wantPct: 0, wantFill: 0},
		{name: "negative goal", goal: -5, entries: []Entry{{Hydration: 100}}, wantPct: 0, wantFill: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{GoalMl: tt.goal, Entries: tt.entries}
			if got := Percent(s); got != tt.wantPct {
				t.Errorf("Percent() = %v, want %v", got, tt.wantPct)
			}
			if got := FillPercent(s); got != tt.wantFill {
				t.Errorf("FillPercent() = %v, want %v", got, tt.wantFill)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := map[float64]float64{
		0.855: 0.86,
		1:     1,
		0.333: 0.33,
		1.2:   1.2,
	}
	for in, want := range tests {
		if got := Round2(in); got != want {
			t.Errorf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}
