package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hvaldez/garage/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateEntry(ctx context.Context, e *audit.Entry) error {
	query := `
		INSERT INTO audit_entries (module, action, table_name, record_id, username,
			occurred_at, before_data, after_data, description, ip_address)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6, $7, NULLIF($8, ''), NULLIF($9, ''))
		RETURNING id, occurred_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.Module,
		e.Action,
		e.Table,
		e.RecordID,
		e.User,
		nullableJSON(e.Before),
		nullableJSON(e.After),
		e.Description,
		e.IPAddress,
	).Scan(&e.ID, &e.OccurredAt)
	if err != nil {
		return fmt.Errorf("creating audit entry: %w", err)
	}

	return nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}

	return []byte(raw)
}

const selectEntryColumns = `
	id, module, action, table_name, record_id, username,
	occurred_at, before_data, after_data, description, ip_address
`

func scanEntry(rows *sql.Rows) (*audit.Entry, error) {
	var e audit.Entry

	var action string

	var before, after []byte

	var description, ipAddress sql.NullString

	if err := rows.Scan(
		&e.ID, &e.Module, &action, &e.Table, &e.RecordID, &e.User,
		&e.OccurredAt, &before, &after, &description, &ipAddress,
	); err != nil {
		return nil, err
	}

	e.Action = audit.Action(action)
	e.Before = before
	e.After = after
	e.Description = description.String
	e.IPAddress = ipAddress.String

	return &e, nil
}

func (s *Store) ListEntries(ctx context.Context, filter audit.Filter) ([]*audit.Entry, int, error) {
	where := " WHERE 1=1"

	var args []any

	argIdx := 1

	addArg := func(clause string, v any) {
		where += fmt.Sprintf(clause, argIdx)

		args = append(args, v)
		argIdx++
	}

	if filter.Module != nil {
		addArg(" AND module = $%d", *filter.Module)
	}

	if filter.Action != nil {
		addArg(" AND action = $%d", *filter.Action)
	}

	if filter.User != nil {
		addArg(" AND username = $%d", *filter.User)
	}

	if filter.Start != nil {
		addArg(" AND occurred_at >= $%d", *filter.Start)
	}

	if filter.End != nil {
		addArg(" AND occurred_at <= $%d", *filter.End)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_entries"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting audit entries: %w", err)
	}

	query := `SELECT ` + selectEntryColumns + ` FROM audit_entries` + where +
		fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning audit entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating audit rows: %w", err)
	}

	return entries, total, nil
}

func (s *Store) ListHistory(ctx context.Context, table, recordID string) ([]*audit.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM audit_entries
		WHERE table_name = $1 AND record_id = $2
		ORDER BY occurred_at ASC`

	rows, err := s.db.QueryContext(ctx, query, table, recordID)
	if err != nil {
		return nil, fmt.Errorf("listing record history: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history rows: %w", err)
	}

	return entries, nil
}
