package sale

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sale
type Repository interface {
	// CreateSale persists the sale, its lines and the matching stock
	// decrements atomically, populating generated identities on success.
	CreateSale(ctx context.Context, s *Sale) error

	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	ListSales(ctx context.Context) ([]*Sale, error)
	ListSalesByDate(ctx context.Context, day time.Time) ([]*Sale, error)

	// DeleteSale removes the sale and its lines; when restock is set the
	// sold quantities are returned to product stock in the same transaction.
	DeleteSale(ctx context.Context, id uuid.UUID, restock bool) error
}

// Invalidator drops cached product listings after a committed stock change.
// The transactional core itself never sees the cache.
type Invalidator interface {
	Invalidate(ctx context.Context, prefix string)
}

type Service struct {
	repo            Repository
	invalidator     Invalidator
	invalidPrefix   string
	restockOnDelete bool
}

func NewService(repo Repository, invalidator Invalidator, invalidPrefix string, restockOnDelete bool) *Service {
	return &Service{
		repo:            repo,
		invalidator:     invalidator,
		invalidPrefix:   invalidPrefix,
		restockOnDelete: restockOnDelete,
	}
}

type LineParams struct {
	ProductID uuid.UUID
	Quantity  int64
}

type CreateParams struct {
	OccurredAt time.Time
	Lines      []LineParams
}

// Create builds and persists the sale. An empty line list is legal and
// yields a header-only sale. Any invalid line aborts the whole call with
// nothing persisted.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Sale, error) {
	sl := &Sale{OccurredAt: params.OccurredAt}

	for _, ln := range params.Lines {
		sl.Lines = append(sl.Lines, &Line{ProductID: ln.ProductID, Quantity: ln.Quantity})
	}

	if err := s.repo.CreateSale(ctx, sl); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	return sl, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Sale, error) {
	return s.repo.ListSales(ctx)
}

func (s *Service) ListByDate(ctx context.Context, day time.Time) ([]*Sale, error) {
	return s.repo.ListSalesByDate(ctx, day)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteSale(ctx, id, s.restockOnDelete); err != nil {
		return err
	}

	s.invalidate(ctx)

	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, s.invalidPrefix)
	}
}
