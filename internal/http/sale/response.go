package sale

import (
	"time"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/sale"
)

type saleResponse struct {
	ID         uuid.UUID      `json:"id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Lines      []lineResponse `json:"lines"`
	CreatedAt  time.Time      `json:"created_at"`
}

type lineResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    int64     `json:"quantity"`
}

func toResponse(s *sale.Sale) saleResponse {
	resp := saleResponse{
		ID:         s.ID,
		OccurredAt: s.OccurredAt,
		Lines:      make([]lineResponse, len(s.Lines)),
		CreatedAt:  s.CreatedAt,
	}

	for i, ln := range s.Lines {
		resp.Lines[i] = lineResponse{
			ID:        ln.ID,
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
		}

		if ln.Product != nil {
			resp.Lines[i].ProductName = ln.Product.Name
		}
	}

	return resp
}

func toResponseList(sales []*sale.Sale) []saleResponse {
	resp := make([]saleResponse, len(sales))
	for i, s := range sales {
		resp[i] = toResponse(s)
	}

	return resp
}
