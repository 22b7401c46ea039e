package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hvaldez/garage/internal/linetx"
	"github.com/hvaldez/garage/internal/order"
)

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := order.NewMockRepository(ctrl)

	offeringID := uuid.New()
	mechanicID := uuid.New()
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().
		CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *order.Order) error {
			require.Len(t, o.Lines, 1)
			assert.Equal(t, offeringID, o.Lines[0].OfferingID)
			assert.Equal(t, int64(8000), o.Lines[0].Price)
			require.Len(t, o.Assignments, 1)
			assert.Equal(t, mechanicID, o.Assignments[0].EmployeeID)

			o.ID = uuid.New()
			o.Lines[0].ID = uuid.New()
			o.Assignments[0].ID = uuid.New()
			return nil
		})

	svc := order.NewService(repo)
	got, err := svc.Create(context.Background(), order.CreateParams{
		Warranty:     3,
		PaymentState: "pending",
		Price:        8000,
		Date:         date,
		Lines:        []order.LineParams{{OfferingID: offeringID, Price: 8000}},
		Assignments:  []order.AssignmentParams{{EmployeeID: mechanicID}},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, 3, got.Warranty)
	assert.Equal(t, "pending", got.PaymentState)
}

func TestService_Create_DanglingOffering(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := order.NewMockRepository(ctrl)

	offeringID := uuid.New()
	lineErr := &linetx.LineError{Number: 1, ItemID: offeringID, Err: linetx.ErrItemNotFound}

	repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(lineErr)

	svc := order.NewService(repo)
	got, err := svc.Create(context.Background(), order.CreateParams{
		Date:  time.Now(),
		Lines: []order.LineParams{{OfferingID: offeringID, Price: 100}},
	})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, linetx.ErrItemNotFound)

	var lerr *linetx.LineError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, offeringID, lerr.ItemID)
}

func TestService_Create_DanglingEmployee(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := order.NewMockRepository(ctrl)
	repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(order.ErrEmployeeNotFound)

	svc := order.NewService(repo)
	got, err := svc.Create(context.Background(), order.CreateParams{
		Date:        time.Now(),
		Assignments: []order.AssignmentParams{{EmployeeID: uuid.New()}},
	})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, order.ErrEmployeeNotFound)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := order.NewMockRepository(ctrl)

	id := uuid.New()
	repo.EXPECT().DeleteOrder(gomock.Any(), id).Return(order.ErrNotFound)

	svc := order.NewService(repo)
	assert.ErrorIs(t, svc.Delete(context.Background(), id), order.ErrNotFound)
}
