package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/order"
)

type orderResponse struct {
	ID           uuid.UUID            `json:"id"`
	Warranty     int                  `json:"warranty"`
	PaymentState string               `json:"payment_state"`
	Price        int64                `json:"price"`
	Date         time.Time            `json:"date"`
	Lines        []lineResponse       `json:"lines"`
	Assignments  []assignmentResponse `json:"assignments"`
	CreatedAt    time.Time            `json:"created_at"`
}

type lineResponse struct {
	ID           uuid.UUID `json:"id"`
	OfferingID   uuid.UUID `json:"offering_id"`
	OfferingName string    `json:"offering_name,omitempty"`
	Price        int64     `json:"price"`
}

type assignmentResponse struct {
	ID           uuid.UUID `json:"id"`
	EmployeeID   uuid.UUID `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
}

func toResponse(o *order.Order) orderResponse {
	resp := orderResponse{
		ID:           o.ID,
		Warranty:     o.Warranty,
		PaymentState: o.PaymentState,
		Price:        o.Price,
		Date:         o.Date,
		Lines:        make([]lineResponse, len(o.Lines)),
		Assignments:  make([]assignmentResponse, len(o.Assignments)),
		CreatedAt:    o.CreatedAt,
	}

	for i, ln := range o.Lines {
		resp.Lines[i] = lineResponse{
			ID:         ln.ID,
			OfferingID: ln.OfferingID,
			Price:      ln.Price,
		}

		if ln.Offering != nil {
			resp.Lines[i].OfferingName = ln.Offering.Name
		}
	}

	for i, a := range o.Assignments {
		resp.Assignments[i] = assignmentResponse{
			ID:         a.ID,
			EmployeeID: a.EmployeeID,
		}

		if a.Employee != nil {
			resp.Assignments[i].EmployeeName = a.Employee.FirstName + " " + a.Employee.LastName
		}
	}

	return resp
}

func toResponseList(orders []*order.Order) []orderResponse {
	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toResponse(o)
	}

	return resp
}
