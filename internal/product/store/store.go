package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/product"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectProductColumns = `
	p.id, p.name, p.description, p.sale_price, p.purchase_price, p.brand,
	p.category, p.stock, p.stock_min, p.barcode, p.image_url,
	a.vehicle_model, a.vehicle_year, p.created_at, p.updated_at
`

const productFrom = `
	FROM products p
	LEFT JOIN autoparts a ON a.product_id = p.id
`

// scanProduct reads a product row, including its optional autoparts join.
func scanProduct(s scanner) (*product.Product, error) {
	var p product.Product

	var barcode, imageURL, vehicleModel sql.NullString

	var vehicleYear sql.NullInt64

	if err := s.Scan(
		&p.ID, &p.Name, &p.Description, &p.SalePrice, &p.PurchasePrice, &p.Brand,
		&p.Category, &p.Stock, &p.StockMin, &barcode, &imageURL,
		&vehicleModel, &vehicleYear, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Barcode = barcode.String
	p.ImageURL = imageURL.String

	if vehicleModel.Valid {
		p.AutoPart = &product.AutoPart{
			VehicleModel: vehicleModel.String,
			VehicleYear:  int(vehicleYear.Int64),
		}
	}

	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *product.Product) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insertProduct(ctx, dbTx, p); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing product: %w", err)
	}

	return nil
}

// insertProduct stages the product row and, for auto parts, the side-table
// row inside the same transaction.
func insertProduct(ctx context.Context, dbTx *sql.Tx, p *product.Product) error {
	query := `
		INSERT INTO products (name, description, sale_price, purchase_price, brand, category,
			stock, stock_min, barcode, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := dbTx.QueryRowContext(ctx, query,
		p.Name,
		p.Description,
		p.SalePrice,
		p.PurchasePrice,
		p.Brand,
		p.Category,
		p.Stock,
		p.StockMin,
		p.Barcode,
		p.ImageURL,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating product: %w", err)
	}

	if p.AutoPart != nil {
		partQuery := `
			INSERT INTO autoparts (product_id, vehicle_model, vehicle_year)
			VALUES ($1, $2, $3)
		`
		if _, err := dbTx.ExecContext(ctx, partQuery, p.ID, p.AutoPart.VehicleModel, p.AutoPart.VehicleYear); err != nil {
			return fmt.Errorf("creating autopart: %w", err)
		}
	}

	return nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	query := `SELECT ` + selectProductColumns + productFrom + `WHERE p.id = $1`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	return p, nil
}

func (s *Store) GetProductByName(ctx context.Context, name string) (*product.Product, error) {
	query := `SELECT ` + selectProductColumns + productFrom + `WHERE p.name = $1`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("getting product by name: %w", err)
	}

	return p, nil
}

func (s *Store) GetProductByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	query := `SELECT ` + selectProductColumns + productFrom + `WHERE p.barcode = $1`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, barcode))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("getting product by barcode: %w", err)
	}

	return p, nil
}

func (s *Store) ListProducts(ctx context.Context, filter product.ListFilter) ([]*product.Product, error) {
	query := `SELECT ` + selectProductColumns + productFrom

	var args []any

	if filter.Category != nil {
		query += " WHERE p.category = $1"

		args = append(args, *filter.Category)
	}

	query += " ORDER BY p.name ASC"

	return s.queryProducts(ctx, query, args...)
}

func (s *Store) ListLowStock(ctx context.Context) ([]*product.Product, error) {
	query := `SELECT ` + selectProductColumns + productFrom + `
		WHERE p.stock < p.stock_min
		ORDER BY p.stock ASC`

	return s.queryProducts(ctx, query)
}

func (s *Store) queryProducts(ctx context.Context, query string, args ...any) ([]*product.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*product.Product

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *product.Product) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE products
		SET name = $1, description = $2, sale_price = $3, purchase_price = $4,
			brand = $5, category = $6, stock = $7, stock_min = $8,
			barcode = NULLIF($9, ''), image_url = NULLIF($10, ''), updated_at = NOW()
		WHERE id = $11
	`

	res, err := dbTx.ExecContext(ctx, query,
		p.Name,
		p.Description,
		p.SalePrice,
		p.PurchasePrice,
		p.Brand,
		p.Category,
		p.Stock,
		p.StockMin,
		p.Barcode,
		p.ImageURL,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}

	if affected == 0 {
		return product.ErrNotFound
	}

	// Keep the side table in step with the product's specialization.
	if _, err := dbTx.ExecContext(ctx, `DELETE FROM autoparts WHERE product_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clearing autopart: %w", err)
	}

	if p.AutoPart != nil {
		partQuery := `
			INSERT INTO autoparts (product_id, vehicle_model, vehicle_year)
			VALUES ($1, $2, $3)
		`
		if _, err := dbTx.ExecContext(ctx, partQuery, p.ID, p.AutoPart.VehicleModel, p.AutoPart.VehicleYear); err != nil {
			return fmt.Errorf("updating autopart: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing product update: %w", err)
	}

	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}

	if affected == 0 {
		return product.ErrNotFound
	}

	return nil
}

// importLockKey derives a stable advisory-lock key from the batch's names,
// so two imports of the same catalog serialize instead of racing.
func importLockKey(names []string) int64 {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	h := fnv.New64a()

	for _, name := range sorted {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context, names []string) (product.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	lockKey := importLockKey(names)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindExistingNames(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query := `SELECT name FROM products WHERE name = ANY($1)`

	rows, err := itx.tx.QueryContext(ctx, query, names)
	if err != nil {
		return nil, fmt.Errorf("finding existing names: %w", err)
	}
	defer rows.Close()

	var existing []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning name: %w", err)
		}

		existing = append(existing, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating name rows: %w", err)
	}

	return existing, nil
}

func (itx *importTx) CreateProducts(ctx context.Context, products []*product.Product) error {
	for _, p := range products {
		if err := insertProduct(ctx, itx.tx, p); err != nil {
			return err
		}
	}

	return nil
}
