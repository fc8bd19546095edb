package events

import "time"

type Stats struct {
	Total        int              `json:"total"`
	Upcoming     int              `json:"upcoming"`
	Past         int              `json:"past"`
	Cancelled    int              `json:"cancelled"`
	AllDay       int              `json:"allDay"`
	Recurring    int              `json:"recurring"`
	ByRecurrence RecurrenceCounts `json:"byRecurrence"`
}

type RecurrenceCounts struct {
	None    int `json:"none"`
	Daily   int `json:"daily"`
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
	Yearly  int `json:"yearly"`
}

func computeStats(events []*Event, now time.Time) Stats {
	s := Stats{Total: len(events)}
	for _, e := range events {
		if e.IsCancelled {
			s.Cancelled++
		} else {
			if e.StartTime.After(now) {
				s.Upcoming++
			}
			if e.EndTime.Before(now) {
				s.Past++
			}
		}
		if e.IsAllDay {
			s.AllDay++
		}
		if e.Recurrence != RecurrenceNone {
			s.Recurring++
		}
		switch e.Recurrence {
		case RecurrenceNone:
			s.ByRecurrence.None++
		case RecurrenceDaily:
			s.ByRecurrence.Daily++
		case RecurrenceWeekly:
			s.ByRecurrence.Weekly++
		case RecurrenceMonthly:
			s.ByRecurrence.Monthly++
		case RecurrenceYearly:
			s.ByRecurrence.Yearly++
		}
	}
	return s
}
