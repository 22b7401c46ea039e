package employee

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateEmployee(ctx context.Context, e *Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, e *Employee) error
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	FirstName string
	LastName  string
	Status    Status
	Specialty string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Employee, error) {
	status := params.Status
	if status == "" {
		status = StatusActive
	}

	e := &Employee{
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Status:    status,
		Specialty: params.Specialty,
	}
	if err := s.repo.CreateEmployee(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return s.repo.GetEmployee(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Employee, error) {
	return s.repo.ListEmployees(ctx)
}

func (s *Service) Update(ctx context.Context, e *Employee) error {
	return s.repo.UpdateEmployee(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteEmployee(ctx, id)
}
