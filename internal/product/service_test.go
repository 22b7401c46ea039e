package product_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hvaldez/garage/internal/product"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    product.CreateParams
		setupMock func(m *product.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: product.CreateParams{
				Name:      "Brake pads",
				SalePrice: 4500,
				Category:  "brakes",
				Stock:     12,
			},
			setupMock: func(m *product.MockRepository) {
				m.EXPECT().
					GetProductByName(gomock.Any(), "Brake pads").
					Return(nil, product.ErrNotFound)
				m.EXPECT().
					CreateProduct(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *product.Product) error {
						p.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:   "DuplicateName",
			params: product.CreateParams{Name: "Brake pads"},
			setupMock: func(m *product.MockRepository) {
				m.EXPECT().
					GetProductByName(gomock.Any(), "Brake pads").
					Return(&product.Product{ID: uuid.New(), Name: "Brake pads"}, nil)
			},
			wantErr: product.ErrDuplicateName,
		},
		{
			name:   "NameCheckFails",
			params: product.CreateParams{Name: "Brake pads"},
			setupMock: func(m *product.MockRepository) {
				m.EXPECT().
					GetProductByName(gomock.Any(), "Brake pads").
					Return(nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := product.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := product.NewService(repo, nil)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_List_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := product.NewMockRepository(ctrl)
	cache := product.NewMockCache(ctrl)

	cached := []*product.Product{{ID: uuid.New(), Name: "Oil filter"}}
	cache.EXPECT().GetProducts(gomock.Any(), "products:list").Return(cached, true)

	svc := product.NewService(repo, cache)
	got, err := svc.List(context.Background(), product.ListFilter{})

	require.NoError(t, err)
	assert.Equal(t, cached, got)
}

func TestService_List_CacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := product.NewMockRepository(ctrl)
	cache := product.NewMockCache(ctrl)

	category := "brakes"
	filter := product.ListFilter{Category: &category}
	fromDB := []*product.Product{{ID: uuid.New(), Name: "Brake pads", Category: category}}

	cache.EXPECT().GetProducts(gomock.Any(), "products:list:brakes").Return(nil, false)
	repo.EXPECT().ListProducts(gomock.Any(), filter).Return(fromDB, nil)
	cache.EXPECT().SetProducts(gomock.Any(), "products:list:brakes", fromDB)

	svc := product.NewService(repo, cache)
	got, err := svc.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, fromDB, got)
}

func TestService_Update_InvalidatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := product.NewMockRepository(ctrl)
	cache := product.NewMockCache(ctrl)

	p := &product.Product{ID: uuid.New(), Name: "Oil filter"}

	repo.EXPECT().UpdateProduct(gomock.Any(), p).Return(nil)
	cache.EXPECT().Invalidate(gomock.Any(), product.CachePrefix)

	svc := product.NewService(repo, cache)
	require.NoError(t, svc.Update(context.Background(), p))
}

func TestService_Update_ErrorSkipsInvalidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := product.NewMockRepository(ctrl)
	cache := product.NewMockCache(ctrl)

	p := &product.Product{ID: uuid.New()}
	repo.EXPECT().UpdateProduct(gomock.Any(), p).Return(product.ErrNotFound)

	svc := product.NewService(repo, cache)
	assert.ErrorIs(t, svc.Update(context.Background(), p), product.ErrNotFound)
}

func TestService_ImportBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := product.NewMockRepository(ctrl)
	itx := product.NewMockImportTx(ctrl)
	svc := product.NewService(repo, nil)

	params := []product.CreateParams{
		{Name: "Brake pads", Stock: 10},
		{Name: "Oil filter", Stock: 5},
	}
	names := []string{"Brake pads", "Oil filter"}

	repo.EXPECT().BeginImport(gomock.Any(), names).Return(itx, nil)
	itx.EXPECT().FindExistingNames(gomock.Any(), names).Return([]string{"Oil filter"}, nil)
	itx.EXPECT().
		CreateProducts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, products []*product.Product) error {
			require.Len(t, products, 1)
			assert.Equal(t, "Brake pads", products[0].Name)
			return nil
		})
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Equal(t, []string{"Oil filter"}, result.Skipped)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := product.NewMockRepository(ctrl)
	svc := product.NewService(repo, nil)

	result, err := svc.ImportBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Skipped)
}
