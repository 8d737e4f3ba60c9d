package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProductRepo struct {
	products map[int64]*Product
	nextID   int64
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[int64]*Product), nextID: 1}
}

func (m *mockProductRepo) Get(_ context.Context, id int64) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) GetByCode(_ context.Context, code string) (*Product, error) {
	for _, p := range m.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockProductRepo) List(_ context.Context, _ ListProductsRequest) ([]Product, int, error) {
	out := make([]Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockProductRepo) Create(_ context.Context, product Product) (int64, error) {
	product.ID = m.nextID
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	m.products[product.ID] = &product
	m.nextID++
	return product.ID, nil
}

func (m *mockProductRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	p, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["code"]; ok {
		p.Code = v.(string)
	}
	if v, ok := updates["name"]; ok {
		p.Name = v.(string)
	}
	if v, ok := updates["unit_price"]; ok {
		p.UnitPrice = v.(float64)
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func TestCreateProduct(t *testing.T) {
	service := NewService(newMockProductRepo())

	p, err := service.Create(context.Background(), CreateProductRequest{
		Code:      "TOLE-2MM",
		Name:      "Tôle acier 2mm",
		UnitPrice: 45.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "TOLE-2MM", p.Code)
	assert.Equal(t, 45.5, p.UnitPrice)
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	service := NewService(newMockProductRepo())
	ctx := context.Background()

	_, err := service.Create(ctx, CreateProductRequest{Code: "TUBE-40", Name: "Tube carré 40"})
	require.NoError(t, err)

	_, err = service.Create(ctx, CreateProductRequest{Code: "TUBE-40", Name: "Autre tube"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateRejectsBlankCode(t *testing.T) {
	service := NewService(newMockProductRepo())

	_, err := service.Create(context.Background(), CreateProductRequest{Code: "  ", Name: "Sans code"})
	assert.Error(t, err)
}

func TestUpdateProductPrice(t *testing.T) {
	service := NewService(newMockProductRepo())
	ctx := context.Background()

	p, err := service.Create(ctx, CreateProductRequest{Code: "CORNIERE-30", Name: "Cornière 30x30", UnitPrice: 12})
	require.NoError(t, err)

	price := 13.25
	updated, err := service.Update(ctx, p.ID, UpdateProductRequest{UnitPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, 13.25, updated.UnitPrice)
	assert.Equal(t, "CORNIERE-30", updated.Code)
}

func TestDeleteUnknownProduct(t *testing.T) {
	service := NewService(newMockProductRepo())

	err := service.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
