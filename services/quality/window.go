package quality

import (
	"fmt"
	"time"
)

const DefaultWindowDays = 90

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DefaultWindow is the 90 days ending at end.
func DefaultWindow(end time.Time) Window {
	return WindowEnding(end, DefaultWindowDays)
}

func WindowEnding(end time.Time, days int) Window {
	if days <= 0 {
		days = DefaultWindowDays
	}
	return Window{Start: end.Add(-time.Duration(days) * 24 * time.Hour), End: end}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) Validate() error {
	if !w.End.After(w.Start) {
		return fmt.Errorf("invalid window: end %s is not after start %s", w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	return nil
}
