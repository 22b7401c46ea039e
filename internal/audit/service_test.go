package audit_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hvaldez/garage/internal/audit"
)

func TestService_Record(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := audit.NewMockRepository(ctrl)

	recordID := uuid.New().String()

	repo.EXPECT().
		CreateEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *audit.Entry) error {
			assert.Equal(t, "product", e.Module)
			assert.Equal(t, audit.ActionUpdate, e.Action)
			assert.Equal(t, recordID, e.RecordID)
			return nil
		})

	svc := audit.NewService(repo)
	svc.Record(context.Background(), audit.Entry{
		Module:   "product",
		Action:   audit.ActionUpdate,
		Table:    "products",
		RecordID: recordID,
		User:     "admin",
		After:    json.RawMessage(`{"stock": 4}`),
	})
}

func TestService_Record_SwallowsStorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := audit.NewMockRepository(ctrl)
	repo.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	svc := audit.NewService(repo)

	// Must not panic or surface the error to the caller.
	svc.Record(context.Background(), audit.Entry{Module: "sale", Action: audit.ActionDelete})
}

func TestService_List_DefaultsPageSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := audit.NewMockRepository(ctrl)

	repo.EXPECT().
		ListEntries(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f audit.Filter) ([]*audit.Entry, int, error) {
			assert.Equal(t, 100, f.Limit)
			return []*audit.Entry{{Module: "order"}}, 1, nil
		})

	svc := audit.NewService(repo)
	entries, total, err := svc.List(context.Background(), audit.Filter{})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
}
