package offering

import (
	"time"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/offering"
)

type offeringResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Price       int64      `json:"price"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toResponse(o *offering.Offering) offeringResponse {
	return offeringResponse{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		Price:       o.Price,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toResponseList(offerings []*offering.Offering) []offeringResponse {
	resp := make([]offeringResponse, len(offerings))
	for i, o := range offerings {
		resp[i] = toResponse(o)
	}

	return resp
}
