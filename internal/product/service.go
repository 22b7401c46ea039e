package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=product
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	GetProductByName(ctx context.Context, name string) (*Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, filter ListFilter) ([]*Product, error)
	ListLowStock(ctx context.Context) ([]*Product, error)

	BeginImport(ctx context.Context, names []string) (ImportTx, error)
}

// ImportTx is one bulk product load. An advisory lock keyed on the batch's
// names keeps two imports of the same catalog from racing each other.
type ImportTx interface {
	FindExistingNames(ctx context.Context, names []string) ([]string, error)
	CreateProducts(ctx context.Context, products []*Product) error
	Commit() error
	Rollback() error
}

// Cache is the read-side cache for product listings. Implementations may be
// absent; the service treats a nil Cache as a permanent miss.
type Cache interface {
	GetProducts(ctx context.Context, key string) ([]*Product, bool)
	SetProducts(ctx context.Context, key string, products []*Product)
	Invalidate(ctx context.Context, prefix string)
}

// CachePrefix namespaces every product cache key, so one invalidation after
// a write drops all cached listings.
const CachePrefix = "products"

type Service struct {
	repo  Repository
	cache Cache
}

func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

type CreateParams struct {
	Name          string
	Description   string
	SalePrice     int64
	PurchasePrice int64
	Brand         string
	Category      string
	Stock         int64
	StockMin      int64
	Barcode       string
	ImageURL      string
	AutoPart      *AutoPart
}

type ListFilter struct {
	Category *string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	existing, err := s.repo.GetProductByName(ctx, params.Name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checking product name: %w", err)
	}

	if existing != nil {
		return nil, ErrDuplicateName
	}

	p := paramsToProduct(params)
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.repo.GetProductByBarcode(ctx, barcode)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	key := listCacheKey(filter)

	if s.cache != nil {
		if products, ok := s.cache.GetProducts(ctx, key); ok {
			return products, nil
		}
	}

	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetProducts(ctx, key, products)
	}

	return products, nil
}

func (s *Service) ListLowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return err
	}

	s.invalidate(ctx)

	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)

	return nil
}

type ImportResult struct {
	Imported []*Product
	Skipped  []string // names already present in the catalog
}

// ImportBatch creates a batch of products in one transaction. Names already
// in the catalog are skipped rather than failing the whole batch, so a
// re-run of the same spreadsheet is harmless.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}

	itx, err := s.repo.BeginImport(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	existing, err := itx.FindExistingNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("find existing names: %w", err)
	}

	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[name] = struct{}{}
	}

	var (
		toCreate []*Product
		skipped  []string
	)

	for _, p := range params {
		if _, ok := taken[p.Name]; ok {
			skipped = append(skipped, p.Name)
			continue
		}

		toCreate = append(toCreate, paramsToProduct(p))
	}

	if len(toCreate) > 0 {
		if err := itx.CreateProducts(ctx, toCreate); err != nil {
			return nil, fmt.Errorf("create products: %w", err)
		}
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	s.invalidate(ctx)

	return &ImportResult{Imported: toCreate, Skipped: skipped}, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, CachePrefix)
	}
}

func listCacheKey(filter ListFilter) string {
	if filter.Category != nil {
		return CachePrefix + ":list:" + *filter.Category
	}

	return CachePrefix + ":list"
}

func paramsToProduct(params CreateParams) *Product {
	return &Product{
		Name:          params.Name,
		Description:   params.Description,
		SalePrice:     params.SalePrice,
		PurchasePrice: params.PurchasePrice,
		Brand:         params.Brand,
		Category:      params.Category,
		Stock:         params.Stock,
		StockMin:      params.StockMin,
		Barcode:       params.Barcode,
		ImageURL:      params.ImageURL,
		AutoPart:      params.AutoPart,
	}
}
