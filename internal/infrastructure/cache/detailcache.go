package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/plansearch/internal/domain/availability"
)

const mgetChunkSize = 100

// DetailCache stores one JSON PlanDetail per entry under detail:{member}.
// Records expire after a TTL; the interval index keeps no TTL, so an expired
// detail leaves a ghost member behind until the reconcile sweep removes it.
type DetailCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewDetailCache creates a new DetailCache. defaultTTL applies when Put is
// called with a non-positive ttl.
func NewDetailCache(client *redis.Client, defaultTTL time.Duration) *DetailCache {
	return &DetailCache{client: client, defaultTTL: defaultTTL}
}

// Put writes detail, replacing any previous record and resetting its TTL.
func (c *DetailCache) Put(ctx context.Context, detail *availability.PlanDetail, ttl time.Duration) error {
	data, err := availability.EncodeDetail(detail)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, detail.Key().DetailKey(), data, ttl).Err(); err != nil {
		return storeError("put detail", err)
	}
	return nil
}

// Get returns the detail for key, or ErrDetailNotFound when absent or expired.
func (c *DetailCache) Get(ctx context.Context, key availability.EntryKey) (*availability.PlanDetail, error) {
	detailKey := key.DetailKey()
	data, err := c.client.Get(ctx, detailKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", detailKey, availability.ErrDetailNotFound)
		}
		return nil, storeError("get detail", err)
	}
	return availability.DecodeDetail(detailKey, data)
}

// Lookup is the outcome of reading one member's detail. Exactly one of Detail
// and Err is set; Err is ErrDetailNotFound or a *SerializationError.
type Lookup struct {
	Member string
	Detail *availability.PlanDetail
	Err    error
}

// GetMany reads the details of members with MGET, in input order. Per-member
// misses and decode failures are reported in the result; only a store failure
// fails the whole call.
func (c *DetailCache) GetMany(ctx context.Context, members []string) ([]Lookup, error) {
	result := make([]Lookup, 0, len(members))
	for start := 0; start < len(members); start += mgetChunkSize {
		chunk := members[start:min(start+mgetChunkSize, len(members))]
		keys := make([]string, len(chunk))
		for i, m := range chunk {
			keys[i] = availability.DetailKeyForMember(m)
		}

		values, err := c.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, storeError("get details", err)
		}

		for i, v := range values {
			lookup := Lookup{Member: chunk[i]}
			switch raw := v.(type) {
			case nil:
				lookup.Err = fmt.Errorf("%s: %w", keys[i], availability.ErrDetailNotFound)
			case string:
				lookup.Detail, lookup.Err = availability.DecodeDetail(keys[i], []byte(raw))
			default:
				lookup.Err = &availability.SerializationError{
					Key: keys[i],
					Err: fmt.Errorf("unexpected reply type %T", v),
				}
			}
			result = append(result, lookup)
		}
	}
	return result, nil
}

// Exists reports, per member, whether its detail record is present.
func (c *DetailCache) Exists(ctx context.Context, members []string) (map[string]bool, error) {
	cmds := make([]*redis.IntCmd, len(members))
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, m := range members {
			cmds[i] = pipe.Exists(ctx, availability.DetailKeyForMember(m))
		}
		return nil
	})
	if err != nil {
		return nil, storeError("check details", err)
	}

	present := make(map[string]bool, len(members))
	for i, m := range members {
		present[m] = cmds[i].Val() > 0
	}
	return present, nil
}

// TTL returns the remaining lifetime of key's detail, or a negative duration
// when it is missing or has no expiry.
func (c *DetailCache) TTL(ctx context.Context, key availability.EntryKey) (time.Duration, error) {
	ttl, err := c.client.TTL(ctx, key.DetailKey()).Result()
	if err != nil {
		return 0, storeError("read detail ttl", err)
	}
	return ttl, nil
}

// Keys walks detail keys matching pattern with SCAN, stopping after limit
// keys. It is for operator diagnostics only and never runs on the request path.
func (c *DetailCache) Keys(ctx context.Context, pattern string, limit int) ([]string, error) {
	if pattern == "" {
		pattern = availability.DetailKeyPrefix + ":*"
	}
	var (
		keys   []string
		cursor uint64
	)
	for {
		page, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, storeError("scan details", err)
		}
		for _, k := range page {
			keys = append(keys, k)
			if limit > 0 && len(keys) >= limit {
				return keys, nil
			}
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}
