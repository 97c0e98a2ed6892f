package lifecycle

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// Window is a validity period [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) (Window, error) {
	if !end.After(start) {
		return Window{}, invalid("end_date", "must be after start_date")
	}
	return Window{Start: start, End: end}, nil
}

// DaysRemaining is signed: zero or negative once the window has passed.
func (w Window) DaysRemaining(now time.Time) int {
	return int(math.Ceil(float64(w.End.Sub(now)) / float64(day)))
}

func (w Window) DisplayDaysRemaining(now time.Time) int {
	if d := w.DaysRemaining(now); d > 0 {
		return d
	}
	return 0
}

func (w Window) ElapsedPercent(now time.Time) float64 {
	total := w.End.Sub(w.Start)
	if total <= 0 {
		if now.Before(w.End) {
			return 0
		}
		return 100
	}
	pct := float64(now.Sub(w.Start)) / float64(total) * 100
	return math.Min(100, math.Max(0, pct))
}

func (w Window) IsExpired(now time.Time) bool {
	return !now.Before(w.End)
}
