// Package linetx implements the transactional create-header-with-lines
// protocol shared by sales (stock-tracked product lines) and work orders
// (priced service lines). The header, every line and every stock decrement
// become durable together, or not at all.
package linetx

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInvalidLine marks a malformed line: nil item id, non-positive
	// quantity on a stock-tracked line, or negative price on a priced line.
	ErrInvalidLine = errors.New("invalid line item")

	// ErrItemNotFound marks a line referencing a catalog row that does not
	// exist. Tx implementations return it from LookupItem.
	ErrItemNotFound = errors.New("referenced item not found")

	// ErrInsufficientStock marks a line requesting more units than the
	// referenced row has available at validation time.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Line is one requested line of a header creation. Quantity is consumed
// from stock on stock-tracked catalogs; Price is the fixed per-line price
// on priced catalogs.
type Line struct {
	ItemID   uuid.UUID
	Quantity int64
	Price    int64
}

// Rules selects the protocol variant for one create call.
type Rules struct {
	// StockTracked requires every line to carry a positive quantity, checks
	// it against the referenced row's stock and decrements the stock as the
	// line is staged. When false, lines carry a fixed non-negative price
	// and stock is never touched.
	StockTracked bool
}

// Tx is one open unit of work against the store. All staging methods write
// into the same uncommitted database transaction: nothing is visible to
// other transactions before Commit, and Rollback discards everything.
type Tx interface {
	// StageHeader inserts the header row and assigns its generated identity
	// so that staged lines can reference it.
	StageHeader(ctx context.Context) error

	// LookupItem fetches the referenced catalog row. Stock-tracked
	// implementations must lock the row (SELECT ... FOR UPDATE) so that
	// concurrent decrements of the same row serialize. Returns
	// ErrItemNotFound when the id does not resolve.
	LookupItem(ctx context.Context, itemID uuid.UUID) (stock int64, err error)

	// StageLine inserts one line row attached to the staged header.
	StageLine(ctx context.Context, ln Line) error

	// DecrementStock subtracts qty from the row locked by LookupItem.
	// Never called on priced-only variants.
	DecrementStock(ctx context.Context, itemID uuid.UUID, qty int64) error

	// Finalize runs variant-specific staging after every line succeeded,
	// e.g. validating and attaching employee assignments to a work order.
	Finalize(ctx context.Context) error

	Commit() error
	Rollback() error
}

// LineError ties a protocol failure to the offending line. Number is
// 1-based, matching the order the caller supplied.
type LineError struct {
	Number    int
	ItemID    uuid.UUID
	Requested int64
	Available int64
	Err       error
}

func (e *LineError) Error() string {
	switch {
	case errors.Is(e.Err, ErrItemNotFound):
		return fmt.Sprintf("line %d: item %s does not exist", e.Number, e.ItemID)
	case errors.Is(e.Err, ErrInsufficientStock):
		return fmt.Sprintf("line %d: item %s has %d in stock, %d requested",
			e.Number, e.ItemID, e.Available, e.Requested)
	default:
		return fmt.Sprintf("line %d: %v", e.Number, e.Err)
	}
}

func (e *LineError) Unwrap() error { return e.Err }

// Create runs the protocol: stage the header, then for each line in caller
// order validate, look up (and lock) the referenced row, stage the line and
// apply its stock decrement immediately. The first failing line aborts the
// whole call; on any error the transaction is rolled back before returning.
func Create(ctx context.Context, tx Tx, rules Rules, lines []Line) error {
	if err := tx.StageHeader(ctx); err != nil {
		tx.Rollback()
		return fmt.Errorf("staging header: %w", err)
	}

	for i, ln := range lines {
		if err := stageLine(ctx, tx, rules, i+1, ln); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Finalize(ctx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

func stageLine(ctx context.Context, tx Tx, rules Rules, n int, ln Line) error {
	if err := validate(rules, ln); err != nil {
		return &LineError{Number: n, ItemID: ln.ItemID, Requested: ln.Quantity, Err: err}
	}

	stock, err := tx.LookupItem(ctx, ln.ItemID)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return &LineError{Number: n, ItemID: ln.ItemID, Requested: ln.Quantity, Err: ErrItemNotFound}
		}

		return fmt.Errorf("looking up item %s: %w", ln.ItemID, err)
	}

	if rules.StockTracked && ln.Quantity > stock {
		return &LineError{
			Number:    n,
			ItemID:    ln.ItemID,
			Requested: ln.Quantity,
			Available: stock,
			Err:       ErrInsufficientStock,
		}
	}

	if err := tx.StageLine(ctx, ln); err != nil {
		return fmt.Errorf("staging line %d: %w", n, err)
	}

	if rules.StockTracked {
		if err := tx.DecrementStock(ctx, ln.ItemID, ln.Quantity); err != nil {
			return fmt.Errorf("decrementing stock for item %s: %w", ln.ItemID, err)
		}
	}

	return nil
}

func validate(rules Rules, ln Line) error {
	if ln.ItemID == uuid.Nil {
		return fmt.Errorf("%w: missing item id", ErrInvalidLine)
	}

	if rules.StockTracked && ln.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidLine)
	}

	if !rules.StockTracked && ln.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidLine)
	}

	return nil
}
