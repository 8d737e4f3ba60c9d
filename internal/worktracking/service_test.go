package worktracking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-erp/atelier-erp/internal/documents"
	"github.com/atelier-erp/atelier-erp/internal/platform/httpx"
)

type mockWorkRepo struct {
	nextID  int64
	records map[int64]*WorkRecord
}

func newMockWorkRepo() *mockWorkRepo {
	return &mockWorkRepo{records: make(map[int64]*WorkRecord)}
}

func (m *mockWorkRepo) Get(_ context.Context, id int64) (*WorkRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *mockWorkRepo) List(_ context.Context, req ListWorkRecordsRequest) ([]WorkRecord, int, error) {
	var out []WorkRecord
	for _, rec := range m.records {
		if req.Unbilled && rec.Billed() {
			continue
		}
		if req.ClientID != nil && rec.ClientID != *req.ClientID {
			continue
		}
		out = append(out, *rec)
	}
	return out, len(out), nil
}

func (m *mockWorkRepo) Create(_ context.Context, record WorkRecord) (int64, error) {
	m.nextID++
	record.ID = m.nextID
	m.records[record.ID] = &record
	return record.ID, nil
}

func (m *mockWorkRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	rec, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	if rec.Billed() {
		return ErrBilled
	}
	if v, ok := updates["description"]; ok {
		rec.Description = v.(string)
	}
	if v, ok := updates["hours"]; ok {
		rec.Hours = v.(float64)
	}
	if v, ok := updates["hourly_rate"]; ok {
		rec.HourlyRate = v.(float64)
	}
	if v, ok := updates["date"]; ok {
		rec.Date = v.(time.Time)
	}
	return nil
}

func (m *mockWorkRepo) Delete(_ context.Context, id int64) error {
	rec, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	if rec.Billed() {
		return ErrBilled
	}
	delete(m.records, id)
	return nil
}

func (m *mockWorkRepo) MarkBilled(_ context.Context, ids []int64, invoiceID int64) error {
	for _, id := range ids {
		rec, ok := m.records[id]
		if !ok || rec.Billed() {
			return ErrBilled
		}
		inv := invoiceID
		rec.InvoiceID = &inv
	}
	return nil
}

type mockInvoicer struct {
	lastRequest documents.CreateDocumentRequest
}

func (m *mockInvoicer) Create(_ context.Context, req documents.CreateDocumentRequest) (*documents.Document, error) {
	m.lastRequest = req
	return &documents.Document{ID: 42, Kind: req.Kind, ClientID: req.ClientID}, nil
}

func seedRecord(t *testing.T, repo *mockWorkRepo, clientID int64, hours, rate float64) int64 {
	t.Helper()
	id, err := repo.Create(context.Background(), WorkRecord{
		ClientID:    clientID,
		Description: "Soudure châssis",
		Hours:       hours,
		HourlyRate:  rate,
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return id
}

func TestBillCreatesInvoiceAndMarksRecords(t *testing.T) {
	repo := newMockWorkRepo()
	invoicer := &mockInvoicer{}
	svc := NewService(repo, invoicer)
	ctx := context.Background()

	a := seedRecord(t, repo, 1, 3, 40)
	b := seedRecord(t, repo, 1, 1.5, 60)

	invoice, err := svc.Bill(ctx, BillWorkRequest{
		ClientID:       1,
		RecordIDs:      []int64{a, b},
		Date:           time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		TaxRatePercent: 19,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 42, invoice.ID)

	req := invoicer.lastRequest
	assert.Equal(t, documents.KindInvoice, req.Kind)
	require.Len(t, req.Lines, 2)
	assert.InDelta(t, 3.0, req.Lines[0].Quantity, 1e-9)
	assert.InDelta(t, 40.0, req.Lines[0].UnitPrice, 1e-9)
	assert.Zero(t, req.Lines[0].ProductID)
	assert.Contains(t, req.Lines[0].ProductName, "Soudure châssis")

	for _, id := range []int64{a, b} {
		rec, err := repo.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, rec.InvoiceID)
		assert.EqualValues(t, 42, *rec.InvoiceID)
	}
}

func TestBillRejectsForeignRecord(t *testing.T) {
	repo := newMockWorkRepo()
	svc := NewService(repo, &mockInvoicer{})

	id := seedRecord(t, repo, 2, 1, 50)

	_, err := svc.Bill(context.Background(), BillWorkRequest{
		ClientID:       1,
		RecordIDs:      []int64{id},
		Date:           time.Now(),
		TaxRatePercent: 19,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestBillRejectsBilledRecord(t *testing.T) {
	repo := newMockWorkRepo()
	svc := NewService(repo, &mockInvoicer{})
	ctx := context.Background()

	id := seedRecord(t, repo, 1, 1, 50)
	require.NoError(t, repo.MarkBilled(ctx, []int64{id}, 7))

	_, err := svc.Bill(ctx, BillWorkRequest{
		ClientID:       1,
		RecordIDs:      []int64{id},
		Date:           time.Now(),
		TaxRatePercent: 19,
	})
	assert.ErrorIs(t, err, ErrBilled)
}

func TestUpdateRejectsBilledRecord(t *testing.T) {
	repo := newMockWorkRepo()
	svc := NewService(repo, &mockInvoicer{})
	ctx := context.Background()

	id := seedRecord(t, repo, 1, 1, 50)
	require.NoError(t, repo.MarkBilled(ctx, []int64{id}, 7))

	hours := 2.0
	_, err := svc.Update(ctx, id, UpdateWorkRecordRequest{Hours: &hours})
	assert.ErrorIs(t, err, ErrBilled)
}

func TestCreateTrimsDescription(t *testing.T) {
	repo := newMockWorkRepo()
	svc := NewService(repo, &mockInvoicer{})

	rec, err := svc.Create(context.Background(), CreateWorkRecordRequest{
		ClientID:    1,
		Description: "  Pliage tôle  ",
		Hours:       2,
		HourlyRate:  35,
		Date:        time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pliage tôle", rec.Description)
}
