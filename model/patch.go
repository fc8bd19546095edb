package model

import "time"

// Patch copies *patch into *dst when patch is set.
func Patch[T any](dst *T, patch *T) {
	if patch != nil {
		*dst = *patch
	}
}

// PatchString applies a patch to a nullable text column: nil keeps the current
// value and an empty string clears it.
func PatchString(dst **string, patch *string) {
	switch {
	case patch == nil:
	case *patch == "":
		*dst = nil
	default:
		v := *patch
		*dst = &v
	}
}

// PatchTime applies a patch to a nullable timestamp: nil keeps the current value
// and the zero time clears it.
func PatchTime(dst **time.Time, patch *time.Time) {
	switch {
	case patch == nil:
	case patch.IsZero():
		*dst = nil
	default:
		v := patch.UTC()
		*dst = &v
	}
}

// NonEmpty returns nil for an empty string, so optional inputs are stored as NULL.
func NonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// UTC returns a copy of t in UTC, or nil.
func UTC(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}

// Strings returns s, or an empty slice when s is nil.
func Strings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
