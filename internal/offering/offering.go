// Package offering holds the catalog of repair services the shop sells
// (oil change, alignment, ...). Offerings are priced but carry no stock.
package offering

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("offering not found")
	ErrDuplicateName = errors.New("an offering with that name already exists")
)

// Offering is one repair service on the menu. Price is in cents and is the
// default; work orders may override it per line.
type Offering struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
