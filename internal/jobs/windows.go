package jobs

import (
	"fmt"
	"time"
)

// Window is a half-open [Start, End) span of first_seen times queried in one
// FR24 request.
type Window struct {
	Start time.Time
	End   time.Time
}

// TimeWindows splits [start, end) into consecutive windows of at most
// maxHours. The last window is shortened to end exactly at end.
func TimeWindows(start, end time.Time, maxHours int) []Window {
	if maxHours < 1 {
		maxHours = 1
	}
	step := time.Duration(maxHours) * time.Hour

	var windows []Window
	for cur := start; cur.Before(end); {
		next := cur.Add(step)
		if next.After(end) {
			next = end
		}
		windows = append(windows, Window{Start: cur, End: next})
		cur = next
	}
	return windows
}

// missingSpans returns the parts of [start, end) not covered by the stored
// first_seen range [earliest, latest].
func missingSpans(start, end time.Time, earliest, latest *time.Time) []Window {
	if earliest == nil || latest == nil {
		return []Window{{Start: start, End: end}}
	}

	var spans []Window
	if start.Before(*earliest) {
		spanEnd := end
		if spanEnd.After(*earliest) {
			spanEnd = *earliest
		}
		spans = append(spans, Window{Start: start, End: spanEnd})
	}
	if end.After(*latest) {
		spanStart := start
		if spanStart.Before(*latest) {
			spanStart = *latest
		}
		spans = append(spans, Window{Start: spanStart, End: end})
	}
	return spans
}

func validateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("start and end are required")
	}
	if start.Location() != time.UTC || end.Location() != time.UTC {
		return fmt.Errorf("start and end must be UTC")
	}
	if !start.Before(end) {
		return fmt.Errorf("start %s must be before end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}
