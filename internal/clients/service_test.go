package clients

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClientsRepo struct {
	clients map[int64]*Client
	nextID  int64
	gets    int
}

func newMockClientsRepo() *mockClientsRepo {
	return &mockClientsRepo{clients: make(map[int64]*Client), nextID: 1}
}

func (m *mockClientsRepo) Get(_ context.Context, id int64) (*Client, error) {
	m.gets++
	c, ok := m.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockClientsRepo) List(_ context.Context, _ ListClientsRequest) ([]Client, int, error) {
	out := make([]Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockClientsRepo) Create(_ context.Context, client Client) (int64, error) {
	client.ID = m.nextID
	client.CreatedAt = time.Now()
	client.UpdatedAt = client.CreatedAt
	m.clients[client.ID] = &client
	m.nextID++
	return client.ID, nil
}

func (m *mockClientsRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	c, ok := m.clients[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := updates["address"]; ok {
		c.Address = v.(string)
	}
	if v, ok := updates["tax_id"]; ok {
		c.TaxID = v.(string)
	}
	if v, ok := updates["phone"]; ok {
		c.Phone = v.(string)
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (m *mockClientsRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.clients[id]; !ok {
		return ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

func testCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestGetPopulatesCache(t *testing.T) {
	repo := newMockClientsRepo()
	service := NewService(repo, testCache(t))
	ctx := context.Background()

	created, err := service.Create(ctx, CreateClientRequest{Name: "Atelier Mécanique Sfax", TaxID: "1234567/A/M/000"})
	require.NoError(t, err)

	repo.gets = 0
	first, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	second, err := service.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, 1, repo.gets, "second lookup should be served from cache")
}

func TestUpdateInvalidatesCache(t *testing.T) {
	repo := newMockClientsRepo()
	service := NewService(repo, testCache(t))
	ctx := context.Background()

	created, err := service.Create(ctx, CreateClientRequest{Name: "Menuiserie Ben Salah"})
	require.NoError(t, err)
	_, err = service.Get(ctx, created.ID)
	require.NoError(t, err)

	name := "Menuiserie Ben Salah & Fils"
	_, err = service.Update(ctx, created.ID, UpdateClientRequest{Name: &name})
	require.NoError(t, err)

	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
}

func TestCreateRejectsBlankName(t *testing.T) {
	service := NewService(newMockClientsRepo(), NewCache(nil, 0))

	_, err := service.Create(context.Background(), CreateClientRequest{Name: "   "})
	assert.Error(t, err)
}

func TestNilCacheFallsThrough(t *testing.T) {
	repo := newMockClientsRepo()
	service := NewService(repo, NewCache(nil, 0))
	ctx := context.Background()

	created, err := service.Create(ctx, CreateClientRequest{Name: "Forge Hammami"})
	require.NoError(t, err)

	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestGetUnknownClient(t *testing.T) {
	service := NewService(newMockClientsRepo(), testCache(t))

	_, err := service.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}
