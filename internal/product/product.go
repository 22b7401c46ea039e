package product

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateName = errors.New("a product with that name already exists")
)

// Product is a stock-bearing catalog item. Prices are in cents.
type Product struct {
	ID            uuid.UUID
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
	AutoPart      *AutoPart // Loaded via JOIN when the product is an auto part
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// AutoPart specializes a product with vehicle fitment data. It lives in a
// side table keyed by the product id and shares the product's lifecycle.
type AutoPart struct {
	VehicleModel string
	VehicleYear  int
}

// LowStock reports whether the product has fallen below its reorder level.
func (p *Product) LowStock() bool {
	return p.Stock < p.StockMin
}
