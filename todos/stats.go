package todos

import (
	"math"
	"time"
)

type Stats struct {
	Total          int            `json:"total"`
	Completed      int            `json:"completed"`
	InProgress     int            `json:"inProgress"`
	Overdue        int            `json:"overdue"`
	ByPriority     PriorityCounts `json:"byPriority"`
	CompletionRate int            `json:"completionRate"`
}

type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// computeStats counts a todo as overdue when its due date has passed and it is
// not completed. CompletionRate is a rounded percentage.
func computeStats(todos []*Todo, now time.Time) Stats {
	s := Stats{Total: len(todos)}
	for _, t := range todos {
		switch t.Status {
		case StatusCompleted:
			s.Completed++
		case StatusInProgress:
			s.InProgress++
		}
		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted {
			s.Overdue++
		}
		switch t.Priority {
		case PriorityHigh:
			s.ByPriority.High++
		case PriorityMedium:
			s.ByPriority.Medium++
		case PriorityLow:
			s.ByPriority.Low++
		}
	}
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}
