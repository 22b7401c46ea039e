package order

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/employee"
	"github.com/hvaldez/garage/internal/offering"
)

var (
	ErrNotFound = errors.New("order not found")

	// ErrEmployeeNotFound marks an assignment referencing an employee that
	// does not exist; it aborts the whole order creation.
	ErrEmployeeNotFound = errors.New("assigned employee not found")
)

// Order is a work order for repair services, optionally with assigned
// mechanics. Like a sale, it owns its lines and assignments: all rows are
// created together in one transaction.
type Order struct {
	ID           uuid.UUID
	Warranty     int // months
	PaymentState string
	Price        int64 // total, in cents
	Date         time.Time
	Lines        []*ServiceLine
	Assignments  []*Assignment
	CreatedAt    time.Time
}

// ServiceLine links an order to an offering at the price agreed for this
// order, which may differ from the offering's list price.
type ServiceLine struct {
	ID         uuid.UUID
	OfferingID uuid.UUID
	Price      int64
	Offering   *offering.Offering // Loaded via JOIN on reads
}

// Assignment puts an employee on the order.
type Assignment struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	Employee   *employee.Employee // Loaded via JOIN on reads
}
