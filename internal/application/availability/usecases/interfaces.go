package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/plansearch/internal/domain/availability"
	"github.com/orris-inc/plansearch/internal/infrastructure/cache"
)

// IntervalIndex is the sorted-set index of plan intervals.
type IntervalIndex interface {
	Record(ctx context.Context, key availability.EntryKey, startEpoch, endEpoch int64) error
	QueryOverlap(ctx context.Context, fromEpoch, toEpoch int64) ([]string, error)
	RemoveOrphans(ctx context.Context, members ...string) (int, error)
	Scan(ctx context.Context, cursor uint64, count int64) ([]string, uint64, error)
}

// DetailStore holds the serialized detail record of every indexed plan.
type DetailStore interface {
	Put(ctx context.Context, detail *availability.PlanDetail, ttl time.Duration) error
	GetMany(ctx context.Context, members []string) ([]cache.Lookup, error)
	Exists(ctx context.Context, members []string) (map[string]bool, error)
}

// StorePinger reports whether the KV store is reachable.
type StorePinger interface {
	Ping(ctx context.Context) error
}
