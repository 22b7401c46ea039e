package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hvaldez/garage/internal/offering"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateOffering(ctx context.Context, o *offering.Offering) error {
	query := `
		INSERT INTO offerings (name, description, price, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, o.Name, o.Description, o.Price).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating offering: %w", err)
	}

	return nil
}

func (s *Store) GetOffering(ctx context.Context, id uuid.UUID) (*offering.Offering, error) {
	query := `SELECT id, name, description, price, created_at, updated_at FROM offerings WHERE id = $1`

	return s.scanOffering(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) GetOfferingByName(ctx context.Context, name string) (*offering.Offering, error) {
	query := `SELECT id, name, description, price, created_at, updated_at FROM offerings WHERE name = $1`

	return s.scanOffering(s.db.QueryRowContext(ctx, query, name))
}

func (s *Store) scanOffering(row *sql.Row) (*offering.Offering, error) {
	var o offering.Offering
	if err := row.Scan(&o.ID, &o.Name, &o.Description, &o.Price, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, offering.ErrNotFound
		}

		return nil, fmt.Errorf("getting offering: %w", err)
	}

	return &o, nil
}

func (s *Store) ListOfferings(ctx context.Context) ([]*offering.Offering, error) {
	query := `SELECT id, name, description, price, created_at, updated_at FROM offerings ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing offerings: %w", err)
	}
	defer rows.Close()

	var offerings []*offering.Offering

	for rows.Next() {
		var o offering.Offering
		if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.Price, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning offering: %w", err)
		}

		offerings = append(offerings, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating offering rows: %w", err)
	}

	return offerings, nil
}

func (s *Store) UpdateOffering(ctx context.Context, o *offering.Offering) error {
	query := `
		UPDATE offerings
		SET name = $1, description = $2, price = $3, updated_at = NOW()
		WHERE id = $4
	`

	res, err := s.db.ExecContext(ctx, query, o.Name, o.Description, o.Price, o.ID)
	if err != nil {
		return fmt.Errorf("updating offering: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}

	if affected == 0 {
		return offering.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteOffering(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM offerings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting offering: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}

	if affected == 0 {
		return offering.ErrNotFound
	}

	return nil
}
