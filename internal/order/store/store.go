package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/employee"
	"github.com/hvaldez/garage/internal/linetx"
	"github.com/hvaldez/garage/internal/offering"
	"github.com/hvaldez/garage/internal/order"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateOrder runs the create-header-with-lines protocol in its priced
// form: offering rows are validated for existence but carry no stock.
// Employee assignments are validated and staged in Finalize, still inside
// the same transaction.
func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	lines := make([]linetx.Line, len(o.Lines))
	for i, ln := range o.Lines {
		lines[i] = linetx.Line{ItemID: ln.OfferingID, Price: ln.Price}
	}

	t := &orderTx{tx: dbTx, order: o}

	return linetx.Create(ctx, t, linetx.Rules{}, lines)
}

// orderTx stages one order creation against an open database transaction.
type orderTx struct {
	tx    *sql.Tx
	order *order.Order
	n     int // next line to stage
}

func (t *orderTx) StageHeader(ctx context.Context) error {
	query := `
		INSERT INTO orders (warranty, payment_state, price, date, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	return t.tx.QueryRowContext(ctx, query,
		t.order.Warranty,
		t.order.PaymentState,
		t.order.Price,
		t.order.Date,
	).Scan(&t.order.ID, &t.order.CreatedAt)
}

func (t *orderTx) LookupItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	// Plain existence check; offerings have no stock to guard.
	query := `SELECT 1 FROM offerings WHERE id = $1`

	var one int
	if err := t.tx.QueryRowContext(ctx, query, itemID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return 0, linetx.ErrItemNotFound
		}

		return 0, err
	}

	return 0, nil
}

func (t *orderTx) StageLine(ctx context.Context, ln linetx.Line) error {
	query := `
		INSERT INTO order_services (order_id, offering_id, price)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := t.tx.QueryRowContext(ctx, query, t.order.ID, ln.ItemID, ln.Price).Scan(&t.order.Lines[t.n].ID)
	if err != nil {
		return err
	}

	t.n++

	return nil
}

func (t *orderTx) DecrementStock(ctx context.Context, itemID uuid.UUID, qty int64) error {
	return nil // never called: offerings are not stock-tracked
}

// Finalize validates and stages the employee assignments.
func (t *orderTx) Finalize(ctx context.Context) error {
	for _, a := range t.order.Assignments {
		var one int

		err := t.tx.QueryRowContext(ctx, `SELECT 1 FROM employees WHERE id = $1`, a.EmployeeID).Scan(&one)
		if err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("employee %s: %w", a.EmployeeID, order.ErrEmployeeNotFound)
			}

			return fmt.Errorf("looking up employee %s: %w", a.EmployeeID, err)
		}

		query := `
			INSERT INTO order_employees (order_id, employee_id)
			VALUES ($1, $2)
			RETURNING id
		`
		if err := t.tx.QueryRowContext(ctx, query, t.order.ID, a.EmployeeID).Scan(&a.ID); err != nil {
			return fmt.Errorf("staging assignment: %w", err)
		}
	}

	return nil
}

func (t *orderTx) Commit() error   { return t.tx.Commit() }
func (t *orderTx) Rollback() error { return t.tx.Rollback() }

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query := `SELECT id, warranty, payment_state, price, date, created_at FROM orders WHERE id = $1`

	var o order.Order
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&o.ID, &o.Warranty, &o.PaymentState, &o.Price, &o.Date, &o.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("getting order: %w", err)
	}

	if err := s.attachRelations(ctx, []*order.Order{&o}); err != nil {
		return nil, err
	}

	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]*order.Order, error) {
	query := `SELECT id, warranty, payment_state, price, date, created_at FROM orders ORDER BY date DESC`

	return s.queryOrders(ctx, query)
}

func (s *Store) ListOrdersByDate(ctx context.Context, day time.Time) ([]*order.Order, error) {
	query := `
		SELECT id, warranty, payment_state, price, date, created_at FROM orders
		WHERE date::date = $1::date
		ORDER BY created_at ASC
	`

	return s.queryOrders(ctx, query, day)
}

func (s *Store) queryOrders(ctx context.Context, query string, args ...any) ([]*order.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order

	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.Warranty, &o.PaymentState, &o.Price, &o.Date, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	if err := s.attachRelations(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *Store) attachRelations(ctx context.Context, orders []*order.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*order.Order, len(orders))
	ids := make([]uuid.UUID, len(orders))

	for i, o := range orders {
		byID[o.ID] = o
		ids[i] = o.ID
	}

	if err := s.attachLines(ctx, byID, ids); err != nil {
		return err
	}

	return s.attachAssignments(ctx, byID, ids)
}

func (s *Store) attachLines(ctx context.Context, byID map[uuid.UUID]*order.Order, ids []uuid.UUID) error {
	query := `
		SELECT os.id, os.order_id, os.offering_id, os.price,
			o.id, o.name, o.description, o.price, o.created_at, o.updated_at
		FROM order_services os
		JOIN offerings o ON o.id = os.offering_id
		WHERE os.order_id = ANY($1)
		ORDER BY os.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("listing order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ln      order.ServiceLine
			orderID uuid.UUID
			off     offering.Offering
		)

		if err := rows.Scan(
			&ln.ID, &orderID, &ln.OfferingID, &ln.Price,
			&off.ID, &off.Name, &off.Description, &off.Price, &off.CreatedAt, &off.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scanning order line: %w", err)
		}

		ln.Offering = &off

		if o, ok := byID[orderID]; ok {
			o.Lines = append(o.Lines, &ln)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating order line rows: %w", err)
	}

	return nil
}

func (s *Store) attachAssignments(ctx context.Context, byID map[uuid.UUID]*order.Order, ids []uuid.UUID) error {
	query := `
		SELECT oe.id, oe.order_id, oe.employee_id,
			e.id, e.first_name, e.last_name, e.status, e.specialty, e.created_at, e.updated_at
		FROM order_employees oe
		JOIN employees e ON e.id = oe.employee_id
		WHERE oe.order_id = ANY($1)
		ORDER BY oe.id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("listing order assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a       order.Assignment
			orderID uuid.UUID
			emp     employee.Employee
			status  string
		)

		if err := rows.Scan(
			&a.ID, &orderID, &a.EmployeeID,
			&emp.ID, &emp.FirstName, &emp.LastName, &status, &emp.Specialty, &emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scanning assignment: %w", err)
		}

		emp.Status = employee.Status(status)
		a.Employee = &emp

		if o, ok := byID[orderID]; ok {
			o.Assignments = append(o.Assignments, &a)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating assignment rows: %w", err)
	}

	return nil
}

// DeleteOrder removes the order with its lines and assignments. Offerings
// carry no stock, so there is nothing to restore.
func (s *Store) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM order_services WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("deleting order lines: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM order_employees WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("deleting order assignments: %w", err)
	}

	res, err := dbTx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}

	if affected == 0 {
		return order.ErrNotFound
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing order delete: %w", err)
	}

	return nil
}
