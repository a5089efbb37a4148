// Package catalog models what providers publish: base plans (the sellable
// event), their dated plans and the priced zones inside each plan.
package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SellMode is the distribution mode of a base plan.
type SellMode string

const (
	SellModeOnline  SellMode = "online"
	SellModeOffline SellMode = "offline"
)

// ParseSellMode normalizes a provider value. Unknown values are kept so they
// can be persisted, but they are never indexed.
func ParseSellMode(v string) SellMode {
	return SellMode(strings.ToLower(strings.TrimSpace(v)))
}

func (m SellMode) String() string {
	return string(m)
}

// Provider is an upstream feed of plans.
type Provider struct {
	ID          uuid.UUID
	Name        string
	Description string
	URL         string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProvider validates and creates an active provider.
func NewProvider(name, feedURL, description string) (*Provider, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProvider)
	}
	if err := ValidateFeedURL(feedURL); err != nil {
		return nil, err
	}
	return &Provider{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		URL:         feedURL,
		Active:      true,
	}, nil
}

// ValidateFeedURL accepts absolute http and https URLs only.
func ValidateFeedURL(feedURL string) error {
	u, err := url.Parse(feedURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProvider, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: feed url %q must be http(s)", ErrInvalidProvider, feedURL)
	}
	return nil
}

// BasePlan is the parent entity: title and distribution mode shared by its plans.
type BasePlan struct {
	ID                 uuid.UUID
	ProviderID         uuid.UUID
	ExternalID         string
	Title              string
	SellMode           SellMode
	OrganizerCompanyID string
	Plans              []*Plan
}

// Indexable reports whether plans of this base plan belong in the
// availability index. Only publicly listed (online) base plans do.
func (b *BasePlan) Indexable() bool {
	return b.SellMode == SellModeOnline
}

// Plan is one dated occurrence of a base plan.
type Plan struct {
	ID         uuid.UUID
	BasePlanID uuid.UUID
	ExternalID string
	StartsAt   time.Time
	EndsAt     time.Time
	SellFrom   time.Time
	SellTo     time.Time
	SoldOut    bool
	Zones      []*Zone
}

// Zone is a priced area of a plan.
type Zone struct {
	ID         uuid.UUID
	PlanID     uuid.UUID
	ExternalID string
	Name       string
	Capacity   int64
	Price      *float64
	Numbered   bool
}
