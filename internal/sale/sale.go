package sale

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/product"
)

var ErrNotFound = errors.New("sale not found")

// Sale is a counter sale of products. It owns its lines: they are created
// with the sale in one transaction and never exist on their own.
type Sale struct {
	ID         uuid.UUID
	OccurredAt time.Time
	Lines      []*Line
	CreatedAt  time.Time
}

// Line links a sale to a product with the quantity sold.
type Line struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  int64
	Product   *product.Product // Loaded via JOIN on reads
}
