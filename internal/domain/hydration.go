package domain

import "math"

const (
	// MaxDisplayPercent caps the percent text. Cosmetic only.
	MaxDisplayPercent = 999
	// MaxFillPercent caps the visual fill level.
	MaxFillPercent = 100
)

// Total sums the stored hydration of all entries, rounded half up.
func Total(s *State) int {
	sum := 0.0
	for _, e := range s.Entries {
		sum += e.Hydration
	}
	return roundHalfUp(sum)
}

// Percent is total/goal*100 clamped to [0, 999]; 0 when the goal is not positive.
func Percent(s *State) float64 {
	return ratio(s, MaxDisplayPercent)
}

// FillPercent is the same ratio clamped to [0, 100] for the fill indicator.
func FillPercent(s *State) float64 {
	return ratio(s, MaxFillPercent)
}

func ratio(s *State, max float64) float64 {
	if s.GoalMl <= 0 {
		return 0
	}
	return Clamp(float64(Total(s))/float64(s.GoalMl)*100, 0, max)
}

// Clamp bounds n to [min, max].
func Clamp(n, min, max float64) float64 {
	return math.Max(min, math.Min(max, n))
}

// RoundHalfUp rounds to the nearest integer, halves towards +Inf.
func RoundHalfUp(x float64) int {
	return roundHalfUp(x)
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
