package domain

import "time"

// Filter returns the events inside the selection's time window that belong
// to the selected region, preserving input order. The input slice is not
// modified. Filtering an already-filtered slice with the same selection and
// reference returns the same events.
func Filter(events []Event, sel Selection, reference time.Time) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if sel.Matches(e, reference) {
			out = append(out, e)
		}
	}
	return out
}
