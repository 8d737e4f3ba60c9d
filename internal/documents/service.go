package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atelier-erp/atelier-erp/internal/billing"
	"github.com/atelier-erp/atelier-erp/internal/clients"
	"github.com/atelier-erp/atelier-erp/internal/platform/httpx"
)

// Service implements document lifecycle operations. All totals flow through
// the billing draft; the persisted totals are whatever the draft computed
// from the full current line set at save time.
type Service struct {
	repo       Repository
	clientRepo clients.Repository
}

func NewService(repo Repository, clientRepo clients.Repository) *Service {
	return &Service{repo: repo, clientRepo: clientRepo}
}

func (s *Service) Get(ctx context.Context, id int64) (*Document, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetRef(ctx context.Context, id int64) (*SourceRef, error) {
	return s.repo.GetRef(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListDocumentsRequest) ([]DocumentSummary, int, error) {
	return s.repo.List(ctx, req)
}

// Create builds a new document from manual lines and linked delivery notes.
func (s *Service) Create(ctx context.Context, req CreateDocumentRequest) (*Document, error) {
	if !ValidKind(req.Kind) {
		return nil, fmt.Errorf("%w: unknown document kind %q", httpx.ErrValidation, req.Kind)
	}
	if _, err := s.clientRepo.Get(ctx, req.ClientID); err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, fmt.Errorf("%w: client %d does not exist", httpx.ErrValidation, req.ClientID)
		}
		return nil, fmt.Errorf("verify client: %w", err)
	}
	if len(req.SourceIDs) > 0 && req.Kind != KindInvoice && req.Kind != KindCreditNote {
		return nil, fmt.Errorf("%w: only invoices and credit notes link delivery notes", httpx.ErrValidation)
	}

	draft, err := s.assemble(ctx, req.Kind, req.ClientID, req.TaxRatePercent,
		req.FodecApplicable, req.StampAmount, req.Lines, req.SourceIDs)
	if err != nil {
		return nil, err
	}
	if len(draft.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", httpx.ErrValidation)
	}

	number, err := s.repo.GenerateNumber(ctx, req.Kind, req.Date)
	if err != nil {
		return nil, fmt.Errorf("generate document number: %w", err)
	}

	doc := Document{
		Kind:            req.Kind,
		Number:          number,
		ClientID:        req.ClientID,
		Date:            req.Date,
		TaxRatePercent:  draft.TaxRatePercent,
		FodecApplicable: draft.FodecApplicable,
		StampAmount:     draft.StampAmount,
		Notes:           req.Notes,
		Totals:          draft.Totals,
	}

	var docID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, doc)
		if err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		docID = id

		for _, line := range documentLines(id, draft.Lines) {
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("insert line: %w", err)
			}
		}
		return repo.ReplaceSources(ctx, id, draft.SourceIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, docID)
}

// Update replaces the editable parts of a document and recomputes totals.
// The client reference is immutable after creation.
func (s *Service) Update(ctx context.Context, id int64, req UpdateDocumentRequest) (*Document, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Trashed() {
		return nil, ErrTrashed
	}

	taxRate := existing.TaxRatePercent
	if req.TaxRatePercent != nil {
		taxRate = *req.TaxRatePercent
	}
	fodec := existing.FodecApplicable
	if req.FodecApplicable != nil {
		fodec = *req.FodecApplicable
	}
	stamp := existing.StampAmount
	if req.StampAmount != nil {
		stamp = *req.StampAmount
	}

	manual := manualLineRequests(existing.Lines)
	if req.Lines != nil {
		manual = *req.Lines
	}
	sourceIDs := existing.SourceIDs
	if req.SourceIDs != nil {
		sourceIDs = *req.SourceIDs
	}
	if len(sourceIDs) > 0 && existing.Kind != KindInvoice && existing.Kind != KindCreditNote {
		return nil, fmt.Errorf("%w: only invoices and credit notes link delivery notes", httpx.ErrValidation)
	}

	draft, err := s.assemble(ctx, existing.Kind, existing.ClientID, taxRate, fodec, stamp, manual, sourceIDs)
	if err != nil {
		return nil, err
	}
	if len(draft.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", httpx.ErrValidation)
	}

	updates := map[string]interface{}{
		"tax_rate_percent": draft.TaxRatePercent,
		"fodec_applicable": draft.FodecApplicable,
		"stamp_amount":     draft.StampAmount,
		"total_ht":         draft.Totals.TotalHT,
		"total_fodec":      draft.Totals.TotalFodec,
		"total_htva":       draft.Totals.TotalHTVA,
		"total_tva":        draft.Totals.TotalTVA,
		"total_ttc":        draft.Totals.TotalTTC,
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, id, updates); err != nil {
			return err
		}
		if err := repo.DeleteLines(ctx, id); err != nil {
			return err
		}
		for _, line := range documentLines(id, draft.Lines) {
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return err
			}
		}
		return repo.ReplaceSources(ctx, id, draft.SourceIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	return s.repo.Get(ctx, id)
}

// LinkSource folds a delivery note into an invoice or credit note. Linking
// an already linked note leaves the document untouched and reports a
// warning instead of failing.
func (s *Service) LinkSource(ctx context.Context, id, sourceID int64) (*Document, bool, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if doc.Trashed() {
		return nil, false, ErrTrashed
	}
	if doc.Kind != KindInvoice && doc.Kind != KindCreditNote {
		return nil, false, ErrKindMismatch
	}

	draft := s.draftFrom(doc)
	if draft.Linked(sourceID) {
		return doc, true, nil
	}

	sourceLines, err := s.sourceLines(ctx, doc.ClientID, sourceID)
	if err != nil {
		return nil, false, err
	}
	draft.LinkSource(sourceID, sourceLines)

	if err := s.persistDraft(ctx, id, draft); err != nil {
		return nil, false, err
	}
	updated, err := s.repo.Get(ctx, id)
	return updated, false, err
}

// UnlinkSource removes a linked delivery note and exactly the lines
// inherited from it.
func (s *Service) UnlinkSource(ctx context.Context, id, sourceID int64) (*Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Trashed() {
		return nil, ErrTrashed
	}

	draft := s.draftFrom(doc)
	if err := draft.UnlinkSource(sourceID); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	if err := s.persistDraft(ctx, id, draft); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// CreateCreditNote copies an invoice into a credit note. Lines become
// manual lines of the new document; FODEC and stamp duty do not apply to
// credit notes.
func (s *Service) CreateCreditNote(ctx context.Context, invoiceID int64, date time.Time) (*Document, error) {
	invoice, err := s.repo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Kind != KindInvoice {
		return nil, ErrKindMismatch
	}
	if invoice.Trashed() {
		return nil, ErrTrashed
	}

	req := CreateDocumentRequest{
		Kind:           KindCreditNote,
		ClientID:       invoice.ClientID,
		Date:           date,
		TaxRatePercent: invoice.TaxRatePercent,
		Notes:          invoice.Notes,
	}
	for _, l := range invoice.Lines {
		req.Lines = append(req.Lines, LineRequest{
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
		})
	}
	return s.Create(ctx, req)
}

// Trash soft-deletes a document; it stays restorable from the trash view.
func (s *Service) Trash(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

// Restore brings a trashed document back.
func (s *Service) Restore(ctx context.Context, id int64) error {
	return s.repo.Restore(ctx, id)
}

// Purge permanently deletes a document; allowed only from the trash.
func (s *Service) Purge(ctx context.Context, id int64) error {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !doc.Trashed() {
		return ErrNotTrashed
	}
	return s.repo.HardDelete(ctx, id)
}

// assemble builds a billing draft from manual lines plus linked delivery
// notes, applying the kind rules: FODEC and stamp duty only ever apply to
// invoices, and any delivery-based document loses both.
func (s *Service) assemble(
	ctx context.Context,
	kind DocumentKind,
	clientID int64,
	taxRate float64,
	fodec bool,
	stamp float64,
	manual []LineRequest,
	sourceIDs []int64,
) (*billing.Draft, error) {
	draft, err := billing.NewDraft(clientID, taxRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if kind == KindInvoice {
		draft.SetFodec(fodec)
		if err := draft.SetStamp(stamp); err != nil {
			return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
		}
	}
	for _, l := range manual {
		if err := draft.AddManualLine(l.ProductID, l.ProductName, l.Quantity, l.UnitPrice, l.DiscountPercent); err != nil {
			return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
		}
	}
	for _, sourceID := range sourceIDs {
		lines, err := s.sourceLines(ctx, clientID, sourceID)
		if err != nil {
			return nil, err
		}
		draft.LinkSource(sourceID, lines)
	}
	return draft, nil
}

// sourceLines fetches the full line set of a delivery note. The cached
// display fields of a link are never trusted for totals.
func (s *Service) sourceLines(ctx context.Context, clientID, sourceID int64) ([]billing.Line, error) {
	source, err := s.repo.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("fetch linked document %d: %w", sourceID, err)
	}
	if source.Kind != KindDelivery || source.Trashed() || source.ClientID != clientID {
		return nil, ErrSourceInvalid
	}

	lines := billingLines(source.Lines)
	for i := range lines {
		lines[i].SourceDocumentID = 0 // re-tagged by LinkSource
	}
	return lines, nil
}

// draftFrom reconstructs the billing draft of a stored document.
func (s *Service) draftFrom(doc *Document) *billing.Draft {
	draft := &billing.Draft{
		ClientID:        doc.ClientID,
		TaxRatePercent:  doc.TaxRatePercent,
		FodecApplicable: doc.FodecApplicable,
		StampAmount:     doc.StampAmount,
		DeliveryBased:   doc.DeliveryBased(),
		Lines:           billingLines(doc.Lines),
		SourceIDs:       append([]int64(nil), doc.SourceIDs...),
	}
	draft.Recompute()
	return draft
}

func (s *Service) persistDraft(ctx context.Context, id int64, draft *billing.Draft) error {
	// The surcharge fields are persisted alongside the totals: linking a
	// delivery note clears FODEC and stamp duty, and the stored document
	// must not advertise a surcharge its totals exclude.
	draft.Recompute()
	updates := map[string]interface{}{
		"fodec_applicable": draft.FodecApplicable,
		"stamp_amount":     draft.StampAmount,
		"total_ht":         draft.Totals.TotalHT,
		"total_fodec":      draft.Totals.TotalFodec,
		"total_htva":       draft.Totals.TotalHTVA,
		"total_tva":        draft.Totals.TotalTVA,
		"total_ttc":        draft.Totals.TotalTTC,
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, id, updates); err != nil {
			return err
		}
		if err := repo.DeleteLines(ctx, id); err != nil {
			return err
		}
		for _, line := range documentLines(id, draft.Lines) {
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return err
			}
		}
		return repo.ReplaceSources(ctx, id, draft.SourceIDs)
	})
}

// manualLineRequests extracts the manually entered lines of a document for
// reassembly; inherited lines are refetched from their sources instead.
func manualLineRequests(lines []DocumentLine) []LineRequest {
	var out []LineRequest
	for _, l := range lines {
		if l.SourceDocumentID != nil {
			continue
		}
		out = append(out, LineRequest{
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
		})
	}
	return out
}
