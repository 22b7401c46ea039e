package employee

import (
	"time"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/employee"
)

type employeeResponse struct {
	ID        uuid.UUID       `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Status    employee.Status `json:"status"`
	Specialty string          `json:"specialty,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Status:    e.Status,
		Specialty: e.Specialty,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toResponseList(employees []*employee.Employee) []employeeResponse {
	resp := make([]employeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = toResponse(e)
	}

	return resp
}
