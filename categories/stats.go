package categories

import "time"

type Stats struct {
	Total             int            `json:"total"`
	WithIcons         int            `json:"withIcons"`
	WithDescriptions  int            `json:"withDescriptions"`
	ColorDistribution map[string]int `json:"colorDistribution"`
}

func computeStats(categories []*Category, _ time.Time) Stats {
	s := Stats{
		Total:             len(categories),
		ColorDistribution: make(map[string]int),
	}
	for _, c := range categories {
		if c.Icon != nil {
			s.WithIcons++
		}
		if c.Description != nil {
			s.WithDescriptions++
		}
		s.ColorDistribution[c.Color]++
	}
	return s
}
