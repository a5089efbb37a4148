package dto

import (
	"github.com/orris-inc/plansearch/internal/domain/availability"
	"github.com/orris-inc/plansearch/internal/shared/biztime"
)

// EventDTO is one resolved plan as returned by the search endpoint. ID is the
// provider's base plan id, so several events can share it when more than one
// of its plans falls in the window.
type EventDTO struct {
	ID         string  `json:"id"`
	PlanID     string  `json:"plan_id"`
	ProviderID string  `json:"provider_id"`
	Title      string  `json:"title"`
	StartDate  string  `json:"start_date"`
	StartTime  string  `json:"start_time"`
	EndDate    string  `json:"end_date"`
	EndTime    string  `json:"end_time"`
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
	SoldOut    bool    `json:"sold_out"`
}

// SearchResultDTO is the data payload of a search response.
type SearchResultDTO struct {
	Events    []EventDTO `json:"events"`
	Truncated bool       `json:"truncated,omitempty"`
}

// ToEventDTO projects a detail record into its response view.
func ToEventDTO(d *availability.PlanDetail) EventDTO {
	startDate, startTime := biztime.SplitEpoch(d.StartEpoch)
	endDate, endTime := biztime.SplitEpoch(d.EndEpoch)
	minPrice, maxPrice := d.PriceRange()

	return EventDTO{
		ID:         d.BasePlanID,
		PlanID:     d.PlanID,
		ProviderID: d.ProviderID,
		Title:      d.Title,
		StartDate:  startDate,
		StartTime:  startTime,
		EndDate:    endDate,
		EndTime:    endTime,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		SoldOut:    d.SoldOut,
	}
}
