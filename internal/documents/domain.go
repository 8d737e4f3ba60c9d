package documents

import (
	"errors"
	"time"

	"github.com/atelier-erp/atelier-erp/internal/billing"
)

// DocumentKind discriminates the commercial document types.
type DocumentKind string

const (
	KindOrder      DocumentKind = "ORDER"       // bon de commande
	KindDelivery   DocumentKind = "DELIVERY"    // bon de livraison
	KindInvoice    DocumentKind = "INVOICE"     // facture
	KindCreditNote DocumentKind = "CREDIT_NOTE" // avoir
	KindReturn     DocumentKind = "RETURN"      // bon de retour
)

// numberPrefixes maps kinds to document number prefixes.
var numberPrefixes = map[DocumentKind]string{
	KindOrder:      "BC",
	KindDelivery:   "BL",
	KindInvoice:    "FA",
	KindCreditNote: "AV",
	KindReturn:     "BR",
}

// ValidKind reports whether k is a known document kind.
func ValidKind(k DocumentKind) bool {
	_, ok := numberPrefixes[k]
	return ok
}

var (
	ErrNotFound      = errors.New("document not found")
	ErrKindMismatch  = errors.New("operation not allowed for this document kind")
	ErrClientChanged = errors.New("client cannot change after creation")
	ErrNotTrashed    = errors.New("document is not in the trash")
	ErrTrashed       = errors.New("document is in the trash")
	ErrSourceInvalid = errors.New("linked document must be a delivery note of the same client")
)

// DocumentLine is a persisted billable line. SourceDocumentID is set when
// the line was folded in from a linked delivery note.
type DocumentLine struct {
	ID               int64   `json:"id"`
	DocumentID       int64   `json:"document_id"`
	ProductID        int64   `json:"product_id"`
	ProductName      string  `json:"product_name"`
	Quantity         float64 `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	DiscountPercent  float64 `json:"discount_percent"`
	SourceDocumentID *int64  `json:"source_document_id,omitempty"`
	LineOrder        int     `json:"line_order"`
}

// Document is a commercial transaction: order, delivery note, invoice,
// credit note or return slip. Stored totals are display values only; they
// are recomputed through the billing core before every persist.
type Document struct {
	ID              int64          `json:"id"`
	Kind            DocumentKind   `json:"kind"`
	Number          string         `json:"number"`
	ClientID        int64          `json:"client_id"`
	ClientName      string         `json:"client_name,omitempty"`
	Date            time.Time      `json:"date"`
	TaxRatePercent  float64        `json:"tax_rate_percent"`
	FodecApplicable bool           `json:"fodec_applicable"`
	StampAmount     float64        `json:"stamp_amount"`
	Notes           *string        `json:"notes,omitempty"`
	Totals          billing.Totals `json:"totals"`
	Lines           []DocumentLine `json:"lines,omitempty"`
	SourceIDs       []int64        `json:"source_ids,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       *time.Time     `json:"deleted_at,omitempty"`
}

// DeliveryBased reports whether the document is assembled from delivery
// notes, which disables FODEC and stamp duty.
func (d *Document) DeliveryBased() bool {
	return len(d.SourceIDs) > 0
}

// Trashed reports whether the document is soft deleted.
func (d *Document) Trashed() bool {
	return d.DeletedAt != nil
}

// SourceRef is the weak reference shown when listing linkable delivery
// notes. Display only; assembly always fetches the full line set.
type SourceRef struct {
	ID         int64     `json:"id"`
	Number     string    `json:"number"`
	ClientName string    `json:"client_name"`
	Date       time.Time `json:"date"`
	TotalTTC   float64   `json:"total_ttc"`
}

// DocumentSummary is the listing row.
type DocumentSummary struct {
	ID         int64        `json:"id"`
	Kind       DocumentKind `json:"kind"`
	Number     string       `json:"number"`
	ClientID   int64        `json:"client_id"`
	ClientName string       `json:"client_name"`
	Date       time.Time    `json:"date"`
	TotalTTC   float64      `json:"total_ttc"`
	DeletedAt  *time.Time   `json:"deleted_at,omitempty"`
}

// billingLines maps persisted lines to the billing core representation.
func billingLines(lines []DocumentLine) []billing.Line {
	out := make([]billing.Line, 0, len(lines))
	for _, l := range lines {
		bl := billing.Line{
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
		}
		if l.SourceDocumentID != nil {
			bl.SourceDocumentID = *l.SourceDocumentID
		}
		out = append(out, bl)
	}
	return out
}

// documentLines maps billing lines back to persisted lines, preserving order.
func documentLines(docID int64, lines []billing.Line) []DocumentLine {
	out := make([]DocumentLine, 0, len(lines))
	for i, l := range lines {
		dl := DocumentLine{
			DocumentID:      docID,
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			LineOrder:       i + 1,
		}
		if l.SourceDocumentID != 0 {
			src := l.SourceDocumentID
			dl.SourceDocumentID = &src
		}
		out = append(out, dl)
	}
	return out
}
