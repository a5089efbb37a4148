package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/plansearch/internal/domain/availability"
)

// IntervalIndex keeps two sorted sets, start_date and end_date, scoring every
// entry member by its start and end epoch seconds.
//
// Writes and the two-scan read both run inside MULTI/EXEC, so a reader sees an
// entry either in both sets with its latest scores or not at all.
type IntervalIndex struct {
	client *redis.Client
}

// NewIntervalIndex creates a new IntervalIndex on a shared client.
func NewIntervalIndex(client *redis.Client) *IntervalIndex {
	return &IntervalIndex{client: client}
}

// Record adds or re-scores key in both sets.
func (i *IntervalIndex) Record(ctx context.Context, key availability.EntryKey, startEpoch, endEpoch int64) error {
	member := key.Member()
	_, err := i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, availability.StartSetKey, redis.Z{Score: float64(startEpoch), Member: member})
		pipe.ZAdd(ctx, availability.EndSetKey, redis.Z{Score: float64(endEpoch), Member: member})
		return nil
	})
	if err != nil {
		return storeError("record interval", err)
	}
	return nil
}

// QueryOverlap returns the members whose start is at or after from and whose
// end is at or before to, ordered by start score. Missing sets read as empty.
func (i *IntervalIndex) QueryOverlap(ctx context.Context, fromEpoch, toEpoch int64) ([]string, error) {
	var startCmd, endCmd *redis.StringSliceCmd
	_, err := i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		startCmd = pipe.ZRangeByScore(ctx, availability.StartSetKey, &redis.ZRangeBy{
			Min: strconv.FormatInt(fromEpoch, 10),
			Max: "+inf",
		})
		endCmd = pipe.ZRangeByScore(ctx, availability.EndSetKey, &redis.ZRangeBy{
			Min: "-inf",
			Max: strconv.FormatInt(toEpoch, 10),
		})
		return nil
	})
	if err != nil {
		return nil, storeError("query interval", err)
	}

	return intersectOrdered(startCmd.Val(), endCmd.Val()), nil
}

// intersectOrdered keeps the members of ordered that also appear in other,
// preserving the order of ordered.
func intersectOrdered(ordered, other []string) []string {
	if len(ordered) == 0 || len(other) == 0 {
		return []string{}
	}
	inOther := make(map[string]struct{}, len(other))
	for _, m := range other {
		inOther[m] = struct{}{}
	}
	result := make([]string, 0, min(len(ordered), len(other)))
	for _, m := range ordered {
		if _, ok := inOther[m]; ok {
			result = append(result, m)
		}
	}
	return result
}

// removeOrphansScript drops a member from both sets only while its detail key
// is absent. KEYS: start set, end set, then one detail key per member in ARGV
// order. Returns the number of members removed.
var removeOrphansScript = redis.NewScript(`
local removed = 0
for i, member in ipairs(ARGV) do
	if redis.call('EXISTS', KEYS[i + 2]) == 0 then
		removed = removed + redis.call('ZREM', KEYS[1], member)
		redis.call('ZREM', KEYS[2], member)
	end
end
return removed
`)

// RemoveOrphans removes the members whose detail record does not exist. The
// existence check and the removal run as one script, so a detail written
// concurrently keeps its member indexed.
func (i *IntervalIndex) RemoveOrphans(ctx context.Context, members ...string) (int, error) {
	if len(members) == 0 {
		return 0, nil
	}
	keys := make([]string, 0, len(members)+2)
	keys = append(keys, availability.StartSetKey, availability.EndSetKey)
	args := make([]interface{}, len(members))
	for idx, m := range members {
		keys = append(keys, availability.DetailKeyForMember(m))
		args[idx] = m
	}

	removed, err := removeOrphansScript.Run(ctx, i.client, keys, args...).Int()
	if err != nil {
		return 0, storeError("remove orphan intervals", err)
	}
	return removed, nil
}

// Scan returns one ZSCAN page of start_date members. A returned cursor of 0
// means the walk is complete.
func (i *IntervalIndex) Scan(ctx context.Context, cursor uint64, count int64) ([]string, uint64, error) {
	pairs, next, err := i.client.ZScan(ctx, availability.StartSetKey, cursor, "", count).Result()
	if err != nil {
		return nil, 0, storeError("scan interval", err)
	}
	// ZSCAN replies member, score, member, score, ...
	members := make([]string, 0, len(pairs)/2)
	for idx := 0; idx+1 < len(pairs); idx += 2 {
		members = append(members, pairs[idx])
	}
	return members, next, nil
}

// Interval is the pair of scores recorded for a member.
type Interval struct {
	Start    int64
	End      int64
	HasStart bool
	HasEnd   bool
}

// Scores reads both scores of a member.
func (i *IntervalIndex) Scores(ctx context.Context, member string) (Interval, error) {
	var startCmd, endCmd *redis.FloatCmd
	_, err := i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		startCmd = pipe.ZScore(ctx, availability.StartSetKey, member)
		endCmd = pipe.ZScore(ctx, availability.EndSetKey, member)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return Interval{}, storeError("read interval scores", err)
	}

	var iv Interval
	if v, err := startCmd.Result(); err == nil {
		iv.Start, iv.HasStart = int64(v), true
	}
	if v, err := endCmd.Result(); err == nil {
		iv.End, iv.HasEnd = int64(v), true
	}
	return iv, nil
}

// Cardinality returns the sizes of the start and end sets.
func (i *IntervalIndex) Cardinality(ctx context.Context) (startCount, endCount int64, err error) {
	var startCmd, endCmd *redis.IntCmd
	_, err = i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		startCmd = pipe.ZCard(ctx, availability.StartSetKey)
		endCmd = pipe.ZCard(ctx, availability.EndSetKey)
		return nil
	})
	if err != nil {
		return 0, 0, storeError("count intervals", err)
	}
	return startCmd.Val(), endCmd.Val(), nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, availability.ErrStoreUnavailable, err)
}
