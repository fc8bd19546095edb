package events

import "time"

// MaxOccurrences bounds the expansion of a single recurring event.
const MaxOccurrences = 1000

// Occurrence is one instance of an event inside a window.
type Occurrence struct {
	EventID string    `json:"event_id"`
	Title   string    `json:"title"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// next returns the start of the occurrence n steps after start.
func (r Recurrence) next(start time.Time, interval, n int) (time.Time, bool) {
	step := interval * n
	switch r {
	case RecurrenceDaily:
		return start.AddDate(0, 0, step), true
	case RecurrenceWeekly:
		return start.AddDate(0, 0, 7*step), true
	case RecurrenceMonthly:
		return start.AddDate(0, step, 0), true
	case RecurrenceYearly:
		return start.AddDate(step, 0, 0), true
	}
	return time.Time{}, false
}

// skip returns how many steps of the series can be passed over before any
// occurrence could end after from. Calendar steps start one step early because
// AddDate normalizes overflowing days forward.
func (r Recurrence) skip(origin, from time.Time, duration time.Duration, interval int) int {
	ref := from.Add(-duration)
	if !ref.After(origin) {
		return 0
	}

	var steps int
	switch r {
	case RecurrenceDaily:
		steps = int(ref.Sub(origin) / (time.Duration(interval) * 24 * time.Hour))
	case RecurrenceWeekly:
		steps = int(ref.Sub(origin) / (time.Duration(interval) * 7 * 24 * time.Hour))
	case RecurrenceMonthly:
		months := (ref.Year()-origin.Year())*12 + int(ref.Month()-origin.Month())
		steps = months/interval - 1
	case RecurrenceYearly:
		steps = (ref.Year()-origin.Year())/interval - 1
	}
	return max(0, steps)
}

// Expand returns the occurrences of e intersecting [from, to). A recurring
// event repeats every RecurrenceInterval units until RecurrenceEndDate,
// inclusive of occurrences starting on that instant.
func Expand(e *Event, from, to time.Time) []Occurrence {
	origin := e.StartTime.UTC()
	duration := e.Duration()
	interval := max(e.RecurrenceInterval, 1)

	first := e.Recurrence.skip(origin, from.UTC(), duration, interval)

	var out []Occurrence
	for n := first; n < first+MaxOccurrences; n++ {
		start := origin
		if n > 0 {
			var ok bool
			if start, ok = e.Recurrence.next(origin, interval, n); !ok {
				break
			}
		}
		if !start.Before(to) {
			break
		}
		if e.RecurrenceEndDate != nil && start.After(*e.RecurrenceEndDate) {
			break
		}

		end := start.Add(duration)
		if end.After(from) {
			out = append(out, Occurrence{EventID: e.ID, Title: e.Title, Start: start, End: end})
		}
	}
	return out
}
