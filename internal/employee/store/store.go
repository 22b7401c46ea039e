package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/employee"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectEmployeeColumns = `id, first_name, last_name, status, specialty, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*employee.Employee, error) {
	var e employee.Employee

	var status string

	if err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &status, &e.Specialty, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}

	e.Status = employee.Status(status)

	return &e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, e *employee.Employee) error {
	query := `
		INSERT INTO employees (first_name, last_name, status, specialty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, e.FirstName, e.LastName, e.Status, e.Specialty).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating employee: %w", err)
	}

	return nil
}

func (s *Store) GetEmployee(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	query := `SELECT ` + selectEmployeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, employee.ErrNotFound
		}

		return nil, fmt.Errorf("getting employee: %w", err)
	}

	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]*employee.Employee, error) {
	query := `SELECT ` + selectEmployeeColumns + ` FROM employees ORDER BY last_name, first_name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var employees []*employee.Employee

	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}

		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employee rows: %w", err)
	}

	return employees, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e *employee.Employee) error {
	query := `
		UPDATE employees
		SET first_name = $1, last_name = $2, status = $3, specialty = $4, updated_at = NOW()
		WHERE id = $5
	`

	res, err := s.db.ExecContext(ctx, query, e.FirstName, e.LastName, e.Status, e.Specialty, e.ID)
	if err != nil {
		return fmt.Errorf("updating employee: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}

	if affected == 0 {
		return employee.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting employee: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}

	if affected == 0 {
		return employee.ErrNotFound
	}

	return nil
}
