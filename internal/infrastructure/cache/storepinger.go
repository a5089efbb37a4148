package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// StorePinger checks that the shared store answers.
type StorePinger struct {
	client *redis.Client
}

func NewStorePinger(client *redis.Client) *StorePinger {
	return &StorePinger{client: client}
}

// Ping returns nil when the store replies to PING.
func (p *StorePinger) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return storeError("ping", err)
	}
	return nil
}
