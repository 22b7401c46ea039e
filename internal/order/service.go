package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=order
type Repository interface {
	// CreateOrder persists the order, its service lines and its employee
	// assignments atomically, populating generated identities on success.
	CreateOrder(ctx context.Context, o *Order) error

	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context) ([]*Order, error)
	ListOrdersByDate(ctx context.Context, day time.Time) ([]*Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type LineParams struct {
	OfferingID uuid.UUID
	Price      int64
}

type AssignmentParams struct {
	EmployeeID uuid.UUID
}

type CreateParams struct {
	Warranty     int
	PaymentState string
	Price        int64
	Date         time.Time
	Lines        []LineParams
	Assignments  []AssignmentParams
}

// Create builds and persists the work order. Offerings are priced, not
// stock-tracked, so no stock moves; existence of every referenced offering
// and employee is still validated inside the transaction.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Order, error) {
	o := &Order{
		Warranty:     params.Warranty,
		PaymentState: params.PaymentState,
		Price:        params.Price,
		Date:         params.Date,
	}

	for _, ln := range params.Lines {
		o.Lines = append(o.Lines, &ServiceLine{OfferingID: ln.OfferingID, Price: ln.Price})
	}

	for _, a := range params.Assignments {
		o.Assignments = append(o.Assignments, &Assignment{EmployeeID: a.EmployeeID})
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *Service) ListByDate(ctx context.Context, day time.Time) ([]*Order, error) {
	return s.repo.ListOrdersByDate(ctx, day)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOrder(ctx, id)
}
