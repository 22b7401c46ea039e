package sale_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hvaldez/garage/internal/linetx"
	"github.com/hvaldez/garage/internal/sale"
)

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	inv := sale.NewMockInvalidator(ctrl)

	productID := uuid.New()
	date := time.Date(2025, 6, 3, 15, 30, 0, 0, time.UTC)

	repo.EXPECT().
		CreateSale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sl *sale.Sale) error {
			require.Len(t, sl.Lines, 1)
			assert.Equal(t, productID, sl.Lines[0].ProductID)
			assert.Equal(t, int64(2), sl.Lines[0].Quantity)

			sl.ID = uuid.New()
			sl.Lines[0].ID = uuid.New()
			return nil
		})
	inv.EXPECT().Invalidate(gomock.Any(), "products")

	svc := sale.NewService(repo, inv, "products", true)
	got, err := svc.Create(context.Background(), sale.CreateParams{
		OccurredAt: date,
		Lines:      []sale.LineParams{{ProductID: productID, Quantity: 2}},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.NotEmpty(t, got.Lines[0].ID)
	assert.Equal(t, date, got.OccurredAt)
}

func TestService_Create_LineFailureSkipsInvalidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	inv := sale.NewMockInvalidator(ctrl)

	productID := uuid.New()
	lineErr := &linetx.LineError{
		Number:    1,
		ItemID:    productID,
		Requested: 5,
		Available: 2,
		Err:       linetx.ErrInsufficientStock,
	}

	repo.EXPECT().CreateSale(gomock.Any(), gomock.Any()).Return(lineErr)

	svc := sale.NewService(repo, inv, "products", true)
	got, err := svc.Create(context.Background(), sale.CreateParams{
		OccurredAt: time.Now(),
		Lines:      []sale.LineParams{{ProductID: productID, Quantity: 5}},
	})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, linetx.ErrInsufficientStock)
}

func TestService_Create_EmptyLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)

	repo.EXPECT().
		CreateSale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sl *sale.Sale) error {
			assert.Empty(t, sl.Lines)
			sl.ID = uuid.New()
			return nil
		})

	svc := sale.NewService(repo, nil, "products", true)
	got, err := svc.Create(context.Background(), sale.CreateParams{OccurredAt: time.Now()})

	require.NoError(t, err)
	assert.Empty(t, got.Lines)
}

func TestService_Delete_RestockFlag(t *testing.T) {
	type testCase struct {
		name    string
		restock bool
	}

	tests := []testCase{
		{name: "Restock", restock: true},
		{name: "NoRestock", restock: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := sale.NewMockRepository(ctrl)
			inv := sale.NewMockInvalidator(ctrl)

			id := uuid.New()
			repo.EXPECT().DeleteSale(gomock.Any(), id, tt.restock).Return(nil)
			inv.EXPECT().Invalidate(gomock.Any(), "products")

			svc := sale.NewService(repo, inv, "products", tt.restock)
			require.NoError(t, svc.Delete(context.Background(), id))
		})
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	inv := sale.NewMockInvalidator(ctrl)

	id := uuid.New()
	repo.EXPECT().DeleteSale(gomock.Any(), id, true).Return(sale.ErrNotFound)

	svc := sale.NewService(repo, inv, "products", true)
	assert.ErrorIs(t, svc.Delete(context.Background(), id), sale.ErrNotFound)
}
