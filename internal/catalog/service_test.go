package catalog_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mystore/storefront/internal/catalog"
)

type mockProductRepository struct {
	listFunc       func(ctx context.Context, params catalog.ListParams) ([]catalog.Product, int, error)
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	existsByIDFunc func(ctx context.Context, id uuid.UUID) (bool, error)
	categoriesFunc func(ctx context.Context) ([]string, error)
	createFunc     func(ctx context.Context, product *catalog.Product) error
	updateFunc     func(ctx context.Context, product *catalog.Product) error
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockProductRepository) List(ctx context.Context, params catalog.ListParams) ([]catalog.Product, int, error) {
	return m.listFunc(ctx, params)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockProductRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.existsByIDFunc(ctx, id)
}

func (m *mockProductRepository) Categories(ctx context.Context) ([]string, error) {
	return m.categoriesFunc(ctx)
}

func (m *mockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return m.createFunc(ctx, product)
}

func (m *mockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return m.updateFunc(ctx, product)
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func TestCatalogService_Create(t *testing.T) {
	tests := []struct {
		name    string
		product *catalog.Product
		wantErr bool
	}{
		{
			name:    "valid",
			product: &catalog.Product{Name: "Mug", SKU: "MUG-001", Price: 1200},
		},
		{
			name:    "missing_name",
			product: &catalog.Product{SKU: "MUG-001", Price: 1200},
			wantErr: true,
		},
		{
			name:    "missing_sku",
			product: &catalog.Product{Name: "Mug", Price: 1200},
			wantErr: true,
		},
		{
			name:    "zero_price",
			product: &catalog.Product{Name: "Mug", SKU: "MUG-001", Price: 0},
			wantErr: true,
		},
		{
			name:    "negative_price",
			product: &catalog.Product{Name: "Mug", SKU: "MUG-001", Price: -5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockProductRepository{
				createFunc: func(ctx context.Context, product *catalog.Product) error { return nil },
			}

			got, err := catalog.NewService(repo).Create(context.Background(), tt.product)
			if tt.wantErr {
				assert.ErrorIs(t, err, catalog.ErrInvalidProduct)
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestCatalogService_GetByID(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	svc := catalog.NewService(&mockProductRepository{
		getByIDFunc: func(ctx context.Context, got uuid.UUID) (*catalog.Product, error) {
			return nil, catalog.ErrProductNotFound
		},
	})

	_, err := svc.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestCatalogService_Delete(t *testing.T) {
	svc := catalog.NewService(&mockProductRepository{
		deleteFunc: func(ctx context.Context, id uuid.UUID) error {
			return catalog.ErrProductNotFound
		},
	})

	err := svc.Delete(context.Background(), uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}
