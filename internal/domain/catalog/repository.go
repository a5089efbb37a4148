package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrPersist wraps every failure of the relational store.
	ErrPersist = errors.New("catalog persistence failed")

	ErrProviderNotFound = errors.New("provider not found")
	ErrInvalidProvider  = errors.New("invalid provider")
)

// Repository is the relational store of providers and what they publish.
type Repository interface {
	CreateProvider(ctx context.Context, provider *Provider) error
	GetProvider(ctx context.Context, id uuid.UUID) (*Provider, error)
	ListProviders(ctx context.Context) ([]*Provider, error)
	ListActiveProviders(ctx context.Context) ([]*Provider, error)
	SetProviderActive(ctx context.Context, id uuid.UUID, active bool) error

	// PersistBasePlan upserts the base plan with its plans and zones keyed by
	// their provider ids and returns the canonical entity with stable ids.
	PersistBasePlan(ctx context.Context, basePlan *BasePlan) (*BasePlan, error)
}
