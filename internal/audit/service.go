package audit

import (
	"context"
	"log/slog"
)

const defaultPageSize = 100

type Repository interface {
	CreateEntry(ctx context.Context, e *Entry) error
	ListEntries(ctx context.Context, filter Filter) ([]*Entry, int, error)
	ListHistory(ctx context.Context, table, recordID string) ([]*Entry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record writes one audit entry. The trail is a side effect of the business
// operation, so failures are logged and swallowed rather than propagated.
func (s *Service) Record(ctx context.Context, e Entry) {
	if err := s.repo.CreateEntry(ctx, &e); err != nil {
		slog.Error("failed to record audit entry",
			"module", e.Module, "action", e.Action, "record_id", e.RecordID, "error", err)
	}
}

// List returns a page of entries plus the total count for the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Entry, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}

	return s.repo.ListEntries(ctx, filter)
}

// History returns every recorded change of one record, oldest first.
func (s *Service) History(ctx context.Context, table, recordID string) ([]*Entry, error) {
	return s.repo.ListHistory(ctx, table, recordID)
}
