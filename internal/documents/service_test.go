package documents

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-erp/atelier-erp/internal/clients"
	"github.com/atelier-erp/atelier-erp/internal/platform/httpx"
)

type mockRepo struct {
	nextID  int64
	docs    map[int64]*Document
	numbers map[string]int
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: make(map[int64]*Document), numbers: make(map[string]int)}
}

func (m *mockRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *mockRepo) Get(_ context.Context, id int64) (*Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *doc
	cp.Lines = append([]DocumentLine(nil), doc.Lines...)
	cp.SourceIDs = append([]int64(nil), doc.SourceIDs...)
	return &cp, nil
}

func (m *mockRepo) GetRef(ctx context.Context, id int64) (*SourceRef, error) {
	doc, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SourceRef{ID: doc.ID, Number: doc.Number, Date: doc.Date, TotalTTC: doc.Totals.TotalTTC}, nil
}

func (m *mockRepo) List(_ context.Context, req ListDocumentsRequest) ([]DocumentSummary, int, error) {
	var out []DocumentSummary
	for _, d := range m.docs {
		if req.Trashed != d.Trashed() {
			continue
		}
		if req.Kind != nil && d.Kind != *req.Kind {
			continue
		}
		out = append(out, DocumentSummary{
			ID: d.ID, Kind: d.Kind, Number: d.Number,
			ClientID: d.ClientID, Date: d.Date, TotalTTC: d.Totals.TotalTTC,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *mockRepo) Create(_ context.Context, doc Document) (int64, error) {
	m.nextID++
	doc.ID = m.nextID
	m.docs[doc.ID] = &doc
	return doc.ID, nil
}

func (m *mockRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "date":
			doc.Date = v.(time.Time)
		case "notes":
			n := v.(string)
			doc.Notes = &n
		case "tax_rate_percent":
			doc.TaxRatePercent = v.(float64)
		case "fodec_applicable":
			doc.FodecApplicable = v.(bool)
		case "stamp_amount":
			doc.StampAmount = v.(float64)
		case "total_ht":
			doc.Totals.TotalHT = v.(float64)
		case "total_fodec":
			doc.Totals.TotalFodec = v.(float64)
		case "total_htva":
			doc.Totals.TotalHTVA = v.(float64)
		case "total_tva":
			doc.Totals.TotalTVA = v.(float64)
		case "total_ttc":
			doc.Totals.TotalTTC = v.(float64)
		}
	}
	return nil
}

func (m *mockRepo) InsertLine(_ context.Context, line DocumentLine) (int64, error) {
	doc, ok := m.docs[line.DocumentID]
	if !ok {
		return 0, ErrNotFound
	}
	line.ID = int64(len(doc.Lines) + 1)
	doc.Lines = append(doc.Lines, line)
	return line.ID, nil
}

func (m *mockRepo) DeleteLines(_ context.Context, documentID int64) error {
	doc, ok := m.docs[documentID]
	if !ok {
		return ErrNotFound
	}
	doc.Lines = nil
	return nil
}

func (m *mockRepo) ReplaceSources(_ context.Context, documentID int64, sourceIDs []int64) error {
	doc, ok := m.docs[documentID]
	if !ok {
		return ErrNotFound
	}
	doc.SourceIDs = append([]int64(nil), sourceIDs...)
	return nil
}

func (m *mockRepo) SoftDelete(_ context.Context, id int64) error {
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	doc.DeletedAt = &now
	return nil
}

func (m *mockRepo) Restore(_ context.Context, id int64) error {
	doc, ok := m.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.DeletedAt = nil
	return nil
}

func (m *mockRepo) HardDelete(_ context.Context, id int64) error {
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *mockRepo) PurgeTrashedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	for id, d := range m.docs {
		if d.DeletedAt != nil && d.DeletedAt.Before(cutoff) {
			delete(m.docs, id)
			purged++
		}
	}
	return purged, nil
}

func (m *mockRepo) GenerateNumber(_ context.Context, kind DocumentKind, date time.Time) (string, error) {
	key := string(kind) + date.Format("0601")
	m.numbers[key]++
	return fmt.Sprintf("%s-%s-%04d", numberPrefixes[kind], date.Format("0601"), m.numbers[key]), nil
}

type mockClientRepo struct {
	clients map[int64]*clients.Client
}

func newMockClientRepo(ids ...int64) *mockClientRepo {
	m := &mockClientRepo{clients: make(map[int64]*clients.Client)}
	for _, id := range ids {
		m.clients[id] = &clients.Client{ID: id, Name: fmt.Sprintf("Client %d", id)}
	}
	return m
}

func (m *mockClientRepo) Get(_ context.Context, id int64) (*clients.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, clients.ErrNotFound
	}
	return c, nil
}

func (m *mockClientRepo) List(context.Context, clients.ListClientsRequest) ([]clients.Client, int, error) {
	return nil, 0, nil
}

func (m *mockClientRepo) Create(_ context.Context, c clients.Client) (int64, error) {
	m.clients[c.ID] = &c
	return c.ID, nil
}

func (m *mockClientRepo) Update(context.Context, int64, map[string]interface{}) error {
	return nil
}

func (m *mockClientRepo) Delete(context.Context, int64) error { return nil }

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, newMockClientRepo(1, 2)), repo
}

func testDate() time.Time {
	return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
}

func createDelivery(t *testing.T, svc *Service, clientID int64, lines []LineRequest) *Document {
	t.Helper()
	doc, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:           KindDelivery,
		ClientID:       clientID,
		Date:           testDate(),
		TaxRatePercent: 19,
		Lines:          lines,
	})
	require.NoError(t, err)
	return doc
}

func TestCreateOrderTotals(t *testing.T) {
	svc, _ := newTestService()

	doc, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:           KindOrder,
		ClientID:       1,
		Date:           testDate(),
		TaxRatePercent: 19,
		Lines: []LineRequest{
			{ProductID: 10, ProductName: "Tôle acier 2mm", Quantity: 10, UnitPrice: 25.5},
			{ProductID: 11, ProductName: "Cornière 40x40", Quantity: 4, UnitPrice: 12, DiscountPercent: 50},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "BC-2603-0001", doc.Number)
	assert.InDelta(t, 279.0, doc.Totals.TotalHT, 1e-9)
	assert.InDelta(t, 0.0, doc.Totals.TotalFodec, 1e-9)
	assert.InDelta(t, 279.0*0.19, doc.Totals.TotalTVA, 1e-9)
	assert.InDelta(t, 279.0*1.19, doc.Totals.TotalTTC, 1e-9)
	assert.Len(t, doc.Lines, 2)
}

func TestCreateInvoiceWithFodecAndStamp(t *testing.T) {
	svc, _ := newTestService()

	doc, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:            KindInvoice,
		ClientID:        1,
		Date:            testDate(),
		TaxRatePercent:  19,
		FodecApplicable: true,
		StampAmount:     1.0,
		Lines: []LineRequest{
			{ProductID: 10, ProductName: "Structure soudée", Quantity: 1, UnitPrice: 760},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "FA-2603-0001", doc.Number)
	assert.InDelta(t, 760.0, doc.Totals.TotalHT, 1e-9)
	assert.InDelta(t, 7.6, doc.Totals.TotalFodec, 1e-9)
	assert.InDelta(t, 767.6, doc.Totals.TotalHTVA, 1e-9)
	assert.InDelta(t, 145.844, doc.Totals.TotalTVA, 1e-9)
	assert.InDelta(t, 914.444, doc.Totals.TotalTTC, 1e-9)
}

func TestCreateIgnoresSurchargesForNonInvoices(t *testing.T) {
	svc, _ := newTestService()

	doc, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:            KindDelivery,
		ClientID:        1,
		Date:            testDate(),
		TaxRatePercent:  19,
		FodecApplicable: true,
		StampAmount:     1.0,
		Lines: []LineRequest{
			{ProductID: 10, ProductName: "Tube carré", Quantity: 2, UnitPrice: 50},
		},
	})
	require.NoError(t, err)

	assert.False(t, doc.FodecApplicable)
	assert.InDelta(t, 0.0, doc.StampAmount, 1e-9)
	assert.InDelta(t, 0.0, doc.Totals.TotalFodec, 1e-9)
	assert.InDelta(t, 100*1.19, doc.Totals.TotalTTC, 1e-9)
}

func TestCreateRejectsUnknownClient(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:           KindOrder,
		ClientID:       99,
		Date:           testDate(),
		TaxRatePercent: 19,
		Lines:          []LineRequest{{ProductID: 10, ProductName: "x", Quantity: 1, UnitPrice: 1}},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRejectsEmptyDocument(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:           KindOrder,
		ClientID:       1,
		Date:           testDate(),
		TaxRatePercent: 19,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateInvoiceFromDeliveryNotes(t *testing.T) {
	svc, _ := newTestService()

	blA := createDelivery(t, svc, 1, []LineRequest{
		{ProductID: 10, ProductName: "Tôle acier 2mm", Quantity: 5, UnitPrice: 20},
	})
	blB := createDelivery(t, svc, 1, []LineRequest{
		{ProductID: 10, ProductName: "Tôle acier 2mm", Quantity: 10, UnitPrice: 20},
		{ProductID: 11, ProductName: "Cornière 40x40", Quantity: 2, UnitPrice: 15},
	})

	invoice, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:            KindInvoice,
		ClientID:        1,
		Date:            testDate(),
		TaxRatePercent:  19,
		FodecApplicable: true,
		StampAmount:     1.0,
		SourceIDs:       []int64{blA.ID, blB.ID},
	})
	require.NoError(t, err)

	// The same product from two delivery notes stays as two separate lines.
	require.Len(t, invoice.Lines, 3)
	assert.Equal(t, blA.ID, *invoice.Lines[0].SourceDocumentID)
	assert.Equal(t, blB.ID, *invoice.Lines[1].SourceDocumentID)
	assert.ElementsMatch(t, []int64{blA.ID, blB.ID}, invoice.SourceIDs)

	// FODEC and stamp duty do not apply to delivery-based invoices; the
	// stored fields are cleared along with the totals.
	assert.InDelta(t, 330.0, invoice.Totals.TotalHT, 1e-9)
	assert.InDelta(t, 0.0, invoice.Totals.TotalFodec, 1e-9)
	assert.InDelta(t, 330.0*1.19, invoice.Totals.TotalTTC, 1e-9)
	assert.False(t, invoice.FodecApplicable)
	assert.InDelta(t, 0.0, invoice.StampAmount, 1e-9)
}

func TestCreateRejectsSourcesOnOrders(t *testing.T) {
	svc, _ := newTestService()

	bl := createDelivery(t, svc, 1, []LineRequest{
		{ProductID: 10, ProductName: "x", Quantity: 1, UnitPrice: 1},
	})

	_, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:           KindOrder,
		ClientID:       1,
		Date:           testDate(),
		TaxRatePercent: 19,
		SourceIDs:      []int64{bl.ID},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRejectsSourceOfOtherClient(t *testing.T) {
	svc, _ := newTestService()

	bl := createDelivery(t, svc, 2, []LineRequest{
		{ProductID: 10, ProductName: "x", Quantity: 1, UnitPrice: 1},
	})

	_, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:           KindInvoice,
		ClientID:       1,
		Date:           testDate(),
		TaxRatePercent: 19,
		SourceIDs:      []int64{bl.ID},
	})
	assert.ErrorIs(t, err, ErrSourceInvalid)
}

func TestLinkSourceRecomputesTotals(t *testing.T) {
	svc, _ := newTestService()

	bl := createDelivery(t, svc, 1, []LineRequest{
		{ProductID: 10, ProductName: "Tôle acier 2mm", Quantity: 5, UnitPrice: 20},
	})
	invoice, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:            KindInvoice,
		ClientID:        1,
		Date:            testDate(),
		TaxRatePercent:  19,
		FodecApplicable: true,
		StampAmount:     1.0,
		Lines: []LineRequest{
			{ProductID: 20, ProductName: "Main d'oeuvre", Quantity: 1, UnitPrice: 50},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 50.5, invoice.Totals.TotalHT+invoice.Totals.TotalFodec, 1e-9)

	linked, warned, err := svc.LinkSource(context.Background(), invoice.ID, bl.ID)
	require.NoError(t, err)
	assert.False(t, warned)
	require.Len(t, linked.Lines, 2)

	// Linking made the invoice delivery based, dropping FODEC and stamp.
	assert.InDelta(t, 150.0, linked.Totals.TotalHT, 1e-9)
	assert.InDelta(t, 0.0, linked.Totals.TotalFodec, 1e-9)
	assert.InDelta(t, 150.0*1.19, linked.Totals.TotalTTC, 1e-9)

	// The stored fields are cleared too, not just the totals, so the
	// printed document never shows a surcharge row its TTC excludes.
	assert.False(t, linked.FodecApplicable)
	assert.InDelta(t, 0.0, linked.StampAmount, 1e-9)
}

func TestLinkSourceTwiceWarnsWithoutChange(t *testing.T) {
	svc, _ := newTestService()

	bl := createDelivery(t, svc, 1, []LineRequest{
		{ProductID: 10, ProductName: "x", Quantity: 5, UnitPrice: 20},
	})
	invoice, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:           KindInvoice,
		ClientID:       1,
		Date:           testDate(),
		TaxRatePercent: 19,
		SourceIDs:      []int64{bl.ID},
	})
	require.NoError(t, err)

	again, warned, err := svc.LinkSource(context.Background(), invoice.ID, bl.ID)
	require.NoError(t, err)
	assert.True(t, warned)
	assert.Len(t, again.Lines, len(invoice.Lines))
	assert.InDelta(t, invoice.Totals.TotalTTC, again.Totals.TotalTTC, 1e-9)
}

func TestLinkSourceRejectsNonDelivery(t *testing.T) {
	svc, _ := newTestService()

	order, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:           KindOrder,
		ClientID:       1,
		Date:           testDate(),
		TaxRatePercent: 19,
		Lines:          []LineRequest{{ProductID: 10, ProductName: "x", Quantity: 1, UnitPrice: 1}},
	})
	require.NoError(t, err)

	invoice, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:           KindInvoice,
		ClientID:       1,
		Date:           testDate(),
		TaxRatePercent: 19,
		Lines:          []LineRequest{{ProductID: 20, ProductName: "y", Quantity: 1, UnitPrice: 1}},
	})
	require.NoError(t, err)

	_, _, err = svc.LinkSource(context.Background(), invoice.ID, order.ID)
	assert.ErrorIs(t, err, ErrSourceInvalid)
}

func TestUnlinkSourceRemovesExactlyItsLines(t *testing.T) {
	svc, _ := newTestService()

	blA := createDelivery(t, svc, 1, []LineRequest{
		{ProductID: 10, ProductName: "Tôle acier 2mm", Quantity: 5, UnitPrice: 20},
	})
	blB := createDelivery(t, svc, 1, []LineRequest{
		{ProductID: 10, ProductName: "Tôle acier 2mm", Quantity: 10, UnitPrice: 20},
	})

	invoice, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:           KindInvoice,
		ClientID:       1,
		Date:           testDate(),
		TaxRatePercent: 19,
		Lines: []LineRequest{
			{ProductID: 20, ProductName: "Main d'oeuvre", Quantity: 1, UnitPrice: 50},
		},
		SourceIDs: []int64{blA.ID, blB.ID},
	})
	require.NoError(t, err)
	require.Len(t, invoice.Lines, 3)

	after, err := svc.UnlinkSource(context.Background(), invoice.ID, blA.ID)
	require.NoError(t, err)

	// Exactly blB's line and the manual line remain.
	require.Len(t, after.Lines, 2)
	for _, l := range after.Lines {
		if l.SourceDocumentID != nil {
			assert.Equal(t, blB.ID, *l.SourceDocumentID)
		}
	}
	assert.Equal(t, []int64{blB.ID}, after.SourceIDs)
	assert.InDelta(t, 250.0, after.Totals.TotalHT, 1e-9)
}

func TestUnlinkUnknownSource(t *testing.T) {
	svc, _ := newTestService()

	invoice, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:           KindInvoice,
		ClientID:       1,
		Date:           testDate(),
		TaxRatePercent: 19,
		Lines:          []LineRequest{{ProductID: 10, ProductName: "x", Quantity: 1, UnitPrice: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UnlinkSource(context.Background(), invoice.ID, 999)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateRecomputesTotals(t *testing.T) {
	svc, _ := newTestService()

	doc, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:           KindOrder,
		ClientID:       1,
		Date:           testDate(),
		TaxRatePercent: 19,
		Lines:          []LineRequest{{ProductID: 10, ProductName: "x", Quantity: 2, UnitPrice: 100}},
	})
	require.NoError(t, err)
	require.InDelta(t, 200*1.19, doc.Totals.TotalTTC, 1e-9)

	newRate := 7.0
	newLines := []LineRequest{{ProductID: 10, ProductName: "x", Quantity: 3, UnitPrice: 100}}
	updated, err := svc.Update(context.Background(), doc.ID, UpdateDocumentRequest{
		TaxRatePercent: &newRate,
		Lines:          &newLines,
	})
	require.NoError(t, err)

	assert.InDelta(t, 300.0, updated.Totals.TotalHT, 1e-9)
	assert.InDelta(t, 300*1.07, updated.Totals.TotalTTC, 1e-9)
}

func TestCreateCreditNoteCopiesInvoice(t *testing.T) {
	svc, _ := newTestService()

	invoice, err := svc.Create(context.Background(), CreateDocumentRequest{
		Kind:            KindInvoice,
		ClientID:        1,
		Date:            testDate(),
		TaxRatePercent:  19,
		FodecApplicable: true,
		StampAmount:     1.0,
		Lines: []LineRequest{
			{ProductID: 10, ProductName: "Structure soudée", Quantity: 1, UnitPrice: 760},
		},
	})
	require.NoError(t, err)

	avoir, err := svc.CreateCreditNote(context.Background(), invoice.ID, testDate())
	require.NoError(t, err)

	assert.Equal(t, KindCreditNote, avoir.Kind)
	assert.Equal(t, "AV-2603-0001", avoir.Number)
	assert.Equal(t, invoice.ClientID, avoir.ClientID)
	require.Len(t, avoir.Lines, 1)
	assert.Nil(t, avoir.Lines[0].SourceDocumentID)

	// Credit notes never carry FODEC or stamp duty.
	assert.InDelta(t, 760.0, avoir.Totals.TotalHT, 1e-9)
	assert.InDelta(t, 0.0, avoir.Totals.TotalFodec, 1e-9)
	assert.InDelta(t, 760.0*1.19, avoir.Totals.TotalTTC, 1e-9)
}

func TestCreditNoteRequiresInvoice(t *testing.T) {
	svc, _ := newTestService()

	bl := createDelivery(t, svc, 1, []LineRequest{
		{ProductID: 10, ProductName: "x", Quantity: 1, UnitPrice: 1},
	})

	_, err := svc.CreateCreditNote(context.Background(), bl.ID, testDate())
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestTrashRestorePurge(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	doc, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:           KindOrder,
		ClientID:       1,
		Date:           testDate(),
		TaxRatePercent: 19,
		Lines:          []LineRequest{{ProductID: 10, ProductName: "x", Quantity: 1, UnitPrice: 1}},
	})
	require.NoError(t, err)

	// Purge refuses documents that are not in the trash.
	err = svc.Purge(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotTrashed)

	require.NoError(t, svc.Trash(ctx, doc.ID))
	trashed, err := svc.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, trashed.Trashed())

	// Trashed documents refuse edits.
	_, err = svc.Update(ctx, doc.ID, UpdateDocumentRequest{})
	assert.ErrorIs(t, err, ErrTrashed)

	require.NoError(t, svc.Restore(ctx, doc.ID))
	restored, err := svc.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.False(t, restored.Trashed())

	require.NoError(t, svc.Trash(ctx, doc.ID))
	require.NoError(t, svc.Purge(ctx, doc.ID))
	_, err = repo.Get(ctx, doc.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLinkSourceRejectsTrashedDelivery(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	bl := createDelivery(t, svc, 1, []LineRequest{
		{ProductID: 10, ProductName: "x", Quantity: 1, UnitPrice: 1},
	})
	invoice, err := svc.Create(ctx, CreateDocumentRequest{
		Kind:           KindInvoice,
		ClientID:       1,
		Date:           testDate(),
		TaxRatePercent: 19,
		Lines:          []LineRequest{{ProductID: 20, ProductName: "y", Quantity: 1, UnitPrice: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Trash(ctx, bl.ID))

	_, _, err = svc.LinkSource(ctx, invoice.ID, bl.ID)
	assert.ErrorIs(t, err, ErrSourceInvalid)
}

func TestNumberSequencePerKindAndMonth(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateDocumentRequest{
		Kind: KindOrder, ClientID: 1, Date: testDate(), TaxRatePercent: 19,
		Lines: []LineRequest{{ProductID: 10, ProductName: "x", Quantity: 1, UnitPrice: 1}},
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateDocumentRequest{
		Kind: KindOrder, ClientID: 1, Date: testDate(), TaxRatePercent: 19,
		Lines: []LineRequest{{ProductID: 10, ProductName: "x", Quantity: 1, UnitPrice: 1}},
	})
	require.NoError(t, err)
	otherMonth, err := svc.Create(ctx, CreateDocumentRequest{
		Kind: KindOrder, ClientID: 1, Date: testDate().AddDate(0, 1, 0), TaxRatePercent: 19,
		Lines: []LineRequest{{ProductID: 10, ProductName: "x", Quantity: 1, UnitPrice: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "BC-2603-0001", first.Number)
	assert.Equal(t, "BC-2603-0002", second.Number)
	assert.Equal(t, "BC-2604-0001", otherMonth.Number)
}
