// Package render projects the tracker state into display data and writes
// it as HTML or as a spreadsheet.
package render

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/sip/internal/domain"
	"github.com/MrSnakeDoc/sip/internal/pager"
)

// View is everything the overview and add pages display.
type View struct {
	DateLabel     string        `json:"dateLabel"`
	DayKey        string        `json:"dayKey"`
	GoalMl        int           `json:"goalMl"`
	HydrationMl   int           `json:"hydrationMl"`
	Percent       int           `json:"percent"`
	FillPct       float64       `json:"fillPct"`
	Entries       []EntryView   `json:"entries"`
	Empty         bool          `json:"empty"`
	DrinkTypes    []DrinkOption `json:"drinkTypes"`
	DefaultFactor float64       `json:"defaultFactor"`
	Pager         pager.Frame   `json:"pager"`
}

// EntryView is one row of the entry list.
type EntryView struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Time      string  `json:"time"`
	Ml        int     `json:"ml"`
	Factor    float64 `json:"factor"`
	Hydration int     `json:"hydration"`
}

// DrinkOption is one entry of the drink type selector.
type DrinkOption struct {
	Name   string  `json:"name"`
	Factor float64 `json:"factor"`
	Label  string  `json:"label"`
}

// Project builds the view of state at now; entry times are shown in
// now's location.
func Project(state domain.State, catalog []domain.DrinkType, frame pager.Frame, now time.Time) View {
	day := state.DayKey
	if day == "" {
		day = domain.LocalDayKey(now)
	}

	v := View{
		DateLabel:   "Datum: " + day,
		DayKey:      day,
		GoalMl:      state.GoalMl,
		HydrationMl: domain.Total(&state),
		Percent:     domain.RoundHalfUp(domain.Percent(&state)),
		FillPct:     domain.FillPercent(&state),
		Empty:       len(state.Entries) == 0,
		Entries:     make([]EntryView, 0, len(state.Entries)),
		DrinkTypes:  make([]DrinkOption, 0, len(catalog)),
		Pager:       frame,
	}

	sorted := slices.Clone(state.Entries)
	slices.SortStableFunc(sorted, func(a, b domain.Entry) int {
		return cmp.Compare(b.TS, a.TS)
	})
	for _, e := range sorted {
		v.Entries = append(v.Entries, EntryView{
			ID:        e.ID,
			Type:      e.Type,
			Time:      FormatTime(e.TS, now.Location()),
			Ml:        e.Ml,
			Factor:    e.Factor,
			Hydration: domain.RoundHalfUp(e.Hydration),
		})
	}

	for _, t := range catalog {
		v.DrinkTypes = append(v.DrinkTypes, DrinkOption{
			Name:   t.Name,
			Factor: t.Factor,
			Label:  fmt.Sprintf("%s (Faktor %s)", t.Name, FormatNumber(t.Factor)),
		})
	}
	if len(catalog) > 0 {
		v.DefaultFactor = catalog[0].Factor
	}

	return v
}

// FormatTime renders an epoch-millisecond timestamp as HH:MM in loc.
func FormatTime(ts int64, loc *time.Location) string {
	return time.UnixMilli(ts).In(loc).Format("15:04")
}

// FormatNumber prints a number the shortest way that round-trips (1, 0.85).
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
