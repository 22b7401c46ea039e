package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/linetx"
	"github.com/hvaldez/garage/internal/product"
	"github.com/hvaldez/garage/internal/sale"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateSale runs the create-header-with-lines protocol in its
// stock-tracked form: product rows are read with FOR UPDATE and their
// stock decremented as each line is staged.
func (s *Store) CreateSale(ctx context.Context, sl *sale.Sale) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	lines := make([]linetx.Line, len(sl.Lines))
	for i, ln := range sl.Lines {
		lines[i] = linetx.Line{ItemID: ln.ProductID, Quantity: ln.Quantity}
	}

	t := &saleTx{tx: dbTx, sale: sl}

	return linetx.Create(ctx, t, linetx.Rules{StockTracked: true}, lines)
}

// saleTx stages one sale creation against an open database transaction.
type saleTx struct {
	tx   *sql.Tx
	sale *sale.Sale
	n    int // next line to stage
}

func (t *saleTx) StageHeader(ctx context.Context) error {
	query := `
		INSERT INTO sales (occurred_at, created_at)
		VALUES ($1, NOW())
		RETURNING id, created_at
	`

	return t.tx.QueryRowContext(ctx, query, t.sale.OccurredAt).Scan(&t.sale.ID, &t.sale.CreatedAt)
}

func (t *saleTx) LookupItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	// The lock is held until commit or rollback, so concurrent sales of the
	// same product serialize instead of both reading stale stock.
	query := `SELECT stock FROM products WHERE id = $1 FOR UPDATE`

	var stock int64
	if err := t.tx.QueryRowContext(ctx, query, itemID).Scan(&stock); err != nil {
		if err == sql.ErrNoRows {
			return 0, linetx.ErrItemNotFound
		}

		return 0, err
	}

	return stock, nil
}

func (t *saleTx) StageLine(ctx context.Context, ln linetx.Line) error {
	query := `
		INSERT INTO sale_products (sale_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := t.tx.QueryRowContext(ctx, query, t.sale.ID, ln.ItemID, ln.Quantity).Scan(&t.sale.Lines[t.n].ID)
	if err != nil {
		return err
	}

	t.n++

	return nil
}

func (t *saleTx) DecrementStock(ctx context.Context, itemID uuid.UUID, qty int64) error {
	query := `UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2`

	_, err := t.tx.ExecContext(ctx, query, qty, itemID)

	return err
}

func (t *saleTx) Finalize(ctx context.Context) error { return nil }

func (t *saleTx) Commit() error   { return t.tx.Commit() }
func (t *saleTx) Rollback() error { return t.tx.Rollback() }

func (s *Store) GetSale(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	query := `SELECT id, occurred_at, created_at FROM sales WHERE id = $1`

	var sl sale.Sale
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&sl.ID, &sl.OccurredAt, &sl.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("getting sale: %w", err)
	}

	if err := s.attachLines(ctx, []*sale.Sale{&sl}); err != nil {
		return nil, err
	}

	return &sl, nil
}

func (s *Store) ListSales(ctx context.Context) ([]*sale.Sale, error) {
	query := `SELECT id, occurred_at, created_at FROM sales ORDER BY occurred_at DESC`

	return s.querySales(ctx, query)
}

func (s *Store) ListSalesByDate(ctx context.Context, day time.Time) ([]*sale.Sale, error) {
	query := `
		SELECT id, occurred_at, created_at FROM sales
		WHERE occurred_at::date = $1::date
		ORDER BY occurred_at ASC
	`

	return s.querySales(ctx, query, day)
}

func (s *Store) querySales(ctx context.Context, query string, args ...any) ([]*sale.Sale, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []*sale.Sale

	for rows.Next() {
		var sl sale.Sale
		if err := rows.Scan(&sl.ID, &sl.OccurredAt, &sl.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}

		sales = append(sales, &sl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale rows: %w", err)
	}

	if err := s.attachLines(ctx, sales); err != nil {
		return nil, err
	}

	return sales, nil
}

// attachLines loads the lines of the given sales in one query, with the
// referenced product joined in.
func (s *Store) attachLines(ctx context.Context, sales []*sale.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*sale.Sale, len(sales))
	ids := make([]uuid.UUID, len(sales))

	for i, sl := range sales {
		byID[sl.ID] = sl
		ids[i] = sl.ID
	}

	query := `
		SELECT sp.id, sp.sale_id, sp.product_id, sp.quantity,
			p.id, p.name, p.description, p.sale_price, p.purchase_price, p.brand,
			p.category, p.stock, p.stock_min, p.barcode, p.image_url, p.created_at, p.updated_at
		FROM sale_products sp
		JOIN products p ON p.id = sp.product_id
		WHERE sp.sale_id = ANY($1)
		ORDER BY sp.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("listing sale lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ln     sale.Line
			saleID uuid.UUID
			p      product.Product

			barcode, imageURL sql.NullString
		)

		if err := rows.Scan(
			&ln.ID, &saleID, &ln.ProductID, &ln.Quantity,
			&p.ID, &p.Name, &p.Description, &p.SalePrice, &p.PurchasePrice, &p.Brand,
			&p.Category, &p.Stock, &p.StockMin, &barcode, &imageURL, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scanning sale line: %w", err)
		}

		p.Barcode = barcode.String
		p.ImageURL = imageURL.String
		ln.Product = &p

		if sl, ok := byID[saleID]; ok {
			sl.Lines = append(sl.Lines, &ln)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating sale line rows: %w", err)
	}

	return nil
}

// DeleteSale removes the sale and its lines. With restock set the sold
// quantities are added back to product stock first, inside the same
// transaction, so a crash cannot restock without deleting or vice versa.
func (s *Store) DeleteSale(ctx context.Context, id uuid.UUID, restock bool) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if restock {
		// Aggregated so a product appearing on several lines is restocked
		// by the full sum, not one arbitrary line.
		query := `
			UPDATE products p
			SET stock = p.stock + agg.qty, updated_at = NOW()
			FROM (
				SELECT product_id, SUM(quantity) AS qty
				FROM sale_products
				WHERE sale_id = $1
				GROUP BY product_id
			) agg
			WHERE p.id = agg.product_id
		`
		if _, err := dbTx.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("restocking products: %w", err)
		}
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM sale_products WHERE sale_id = $1`, id); err != nil {
		return fmt.Errorf("deleting sale lines: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting sale: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}

	if affected == 0 {
		return sale.ErrNotFound
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing sale delete: %w", err)
	}

	return nil
}
