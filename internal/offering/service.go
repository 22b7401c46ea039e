package offering

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Repository interface {
	CreateOffering(ctx context.Context, o *Offering) error
	GetOffering(ctx context.Context, id uuid.UUID) (*Offering, error)
	GetOfferingByName(ctx context.Context, name string) (*Offering, error)
	ListOfferings(ctx context.Context) ([]*Offering, error)
	UpdateOffering(ctx context.Context, o *Offering) error
	DeleteOffering(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name        string
	Description string
	Price       int64
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Offering, error) {
	existing, err := s.repo.GetOfferingByName(ctx, params.Name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checking offering name: %w", err)
	}

	if existing != nil {
		return nil, ErrDuplicateName
	}

	o := &Offering{
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
	}
	if err := s.repo.CreateOffering(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Offering, error) {
	return s.repo.GetOffering(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Offering, error) {
	return s.repo.ListOfferings(ctx)
}

func (s *Service) Update(ctx context.Context, o *Offering) error {
	return s.repo.UpdateOffering(ctx, o)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOffering(ctx, id)
}
