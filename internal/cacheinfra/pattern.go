package cacheinfra

import "strings"

// MatchPattern reports whether key matches pattern. '*' matches any run of
// characters, including none; every other character matches itself.
func MatchPattern(pattern, key string) bool {
	segments := strings.Split(pattern, "*")
	if len(segments) == 1 {
		return pattern == key
	}

	head, tail := segments[0], segments[len(segments)-1]
	if !strings.HasPrefix(key, head) {
		return false
	}
	rest := key[len(head):]

	for _, segment := range segments[1 : len(segments)-1] {
		idx := strings.Index(rest, segment)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(segment):]
	}

	return strings.HasSuffix(rest, tail)
}
