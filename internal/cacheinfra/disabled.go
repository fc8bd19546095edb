package cacheinfra

import (
	"context"
	"time"
)

// DisabledService never stores anything. Every Get is a miss.
type DisabledService struct{}

// NewDisabledService returns a service for running without a cache.
func NewDisabledService() DisabledService {
	return DisabledService{}
}

func (DisabledService) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (DisabledService) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (DisabledService) Delete(context.Context, string) error { return nil }

func (DisabledService) InvalidatePattern(context.Context, string) error { return nil }
