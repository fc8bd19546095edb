package cache

import (
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// TTL tiers shared by every repository.
const (
	TTLShort  = 5 * time.Minute
	TTLMedium = 30 * time.Minute
	TTLLong   = time.Hour
	TTLDaily  = 24 * time.Hour
)

// TTLs groups the tier durations so deployments can override them.
type TTLs struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Daily  time.Duration
}

// DefaultTTLs returns the standard tiers.
func DefaultTTLs() TTLs {
	return TTLs{
		Short:  TTLShort,
		Medium: TTLMedium,
		Long:   TTLLong,
		Daily:  TTLDaily,
	}
}

// Max returns the longest tier.
func (t TTLs) Max() time.Duration {
	longest := t.Short
	for _, d := range []time.Duration{t.Medium, t.Long, t.Daily} {
		if d > longest {
			longest = d
		}
	}
	return longest
}

const statsNamespace = "stats"

var digestSerializer = NewDefaultKeySerializer()

// ListKey names a cached list or query result: {entity}:{owner}:{op}:{digest}.
func ListKey(entity, owner, op, digest string) string {
	return strings.Join([]string{entity, owner, op, digest}, ":")
}

// ItemKey names a cached single record: {entity}:{id}.
func ItemKey(entity, id string) string {
	return entity + ":" + id
}

// StatsKey names the cached statistics of one entity type for one owner.
func StatsKey(owner, entity string) string {
	return statsNamespace + ":" + owner + ":" + entity
}

// OwnerListPattern matches every list cache of one entity type for one owner.
func OwnerListPattern(entity, owner string) string {
	return entity + ":" + owner + ":*"
}

// OwnerStatsPattern matches every stats cache for one owner.
func OwnerStatsPattern(owner string) string {
	return statsNamespace + ":" + owner + "*"
}

// OwnerPattern matches every list and stats cache for one owner, across entity types.
func OwnerPattern(owner string) string {
	return "*:" + owner + ":*"
}

// ParamsDigest returns a short stable digest of the given query parameters.
// Equal parameters always produce the same digest.
func ParamsDigest(args ...any) string {
	serialized := digestSerializer.SerializeKey("params", args...)
	return strconv.FormatUint(xxhash.Sum64String(serialized), 16)
}
