package worktracking

import (
	"context"
	"fmt"
	"strings"

	"github.com/atelier-erp/atelier-erp/internal/documents"
	"github.com/atelier-erp/atelier-erp/internal/platform/httpx"
)

// Invoicer is the slice of the documents service the billing flow needs.
type Invoicer interface {
	Create(ctx context.Context, req documents.CreateDocumentRequest) (*documents.Document, error)
}

type Service struct {
	repo     Repository
	invoicer Invoicer
}

func NewService(repo Repository, invoicer Invoicer) *Service {
	return &Service{repo: repo, invoicer: invoicer}
}

func (s *Service) Get(ctx context.Context, id int64) (*WorkRecord, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListWorkRecordsRequest) ([]WorkRecord, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Create(ctx context.Context, req CreateWorkRecordRequest) (*WorkRecord, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: work description is required", httpx.ErrValidation)
	}

	id, err := s.repo.Create(ctx, WorkRecord{
		ClientID:    req.ClientID,
		Description: description,
		Hours:       req.Hours,
		HourlyRate:  req.HourlyRate,
		Date:        req.Date,
	})
	if err != nil {
		return nil, fmt.Errorf("create work record: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateWorkRecordRequest) (*WorkRecord, error) {
	updates := make(map[string]interface{})
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, fmt.Errorf("%w: work description is required", httpx.ErrValidation)
		}
		updates["description"] = description
	}
	if req.Hours != nil {
		updates["hours"] = *req.Hours
	}
	if req.HourlyRate != nil {
		updates["hourly_rate"] = *req.HourlyRate
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Bill converts a set of unbilled work records of one client into an
// invoice, one free-form line per record, then marks the records with the
// invoice id. Hours map to quantity and the hourly rate to the unit price,
// so the invoice totals flow through the same computation as any other
// document.
func (s *Service) Bill(ctx context.Context, req BillWorkRequest) (*documents.Document, error) {
	var lines []documents.LineRequest
	for _, id := range req.RecordIDs {
		rec, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec.ClientID != req.ClientID {
			return nil, fmt.Errorf("%w: work record %d belongs to another client", httpx.ErrValidation, id)
		}
		if rec.Billed() {
			return nil, fmt.Errorf("%w: record %d", ErrBilled, id)
		}
		lines = append(lines, documents.LineRequest{
			ProductName: fmt.Sprintf("%s (%s)", rec.Description, rec.Date.Format("02/01/2006")),
			Quantity:    rec.Hours,
			UnitPrice:   rec.HourlyRate,
		})
	}

	invoice, err := s.invoicer.Create(ctx, documents.CreateDocumentRequest{
		Kind:           documents.KindInvoice,
		ClientID:       req.ClientID,
		Date:           req.Date,
		TaxRatePercent: req.TaxRatePercent,
		StampAmount:    req.StampAmount,
		Lines:          lines,
	})
	if err != nil {
		return nil, fmt.Errorf("create invoice from work records: %w", err)
	}

	if err := s.repo.MarkBilled(ctx, req.RecordIDs, invoice.ID); err != nil {
		return nil, fmt.Errorf("mark records billed: %w", err)
	}
	return invoice, nil
}
