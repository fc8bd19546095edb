package notes

import (
	"math"
	"time"
)

type Stats struct {
	Total              int `json:"total"`
	Archived           int `json:"archived"`
	Pinned             int `json:"pinned"`
	Shared             int `json:"shared"`
	TotalWords         int `json:"totalWords"`
	TotalReadingTime   int `json:"totalReadingTime"`
	AverageWordCount   int `json:"averageWordCount"`
	AverageReadingTime int `json:"averageReadingTime"`
}

func computeStats(notes []*Note, _ time.Time) Stats {
	s := Stats{Total: len(notes)}
	for _, n := range notes {
		if n.IsArchived {
			s.Archived++
		}
		if n.IsPinned {
			s.Pinned++
		}
		if len(n.SharedWith) > 0 {
			s.Shared++
		}
		s.TotalWords += n.WordCount
		s.TotalReadingTime += n.ReadingTime
	}
	if s.Total > 0 {
		s.AverageWordCount = int(math.Round(float64(s.TotalWords) / float64(s.Total)))
		s.AverageReadingTime = int(math.Round(float64(s.TotalReadingTime) / float64(s.Total)))
	}
	return s
}
