package request

import "github.com/shopspring/decimal"

type AvailabilityRequest struct {
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Units    int    `json:"units" validate:"required,min=1"`
}

// InventoryRangeRequest selects the nights [From, To).
type InventoryRangeRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}

// UpdateInventoryRequest changes only the fields that are set.
type UpdateInventoryRequest struct {
	InventoryRangeRequest
	SurgeFactor *decimal.Decimal `json:"surge_factor,omitempty"`
	Closed      *bool            `json:"closed,omitempty"`
	TotalCount  *int             `json:"total_count,omitempty" validate:"omitempty,min=1"`
}
