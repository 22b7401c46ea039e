package employee

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("employee not found")

// Status represents whether an employee is currently on the payroll.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type Employee struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Status    Status
	Specialty string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
