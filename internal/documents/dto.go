package documents

import (
	"time"

	"github.com/atelier-erp/atelier-erp/internal/shared"
)

// LineRequest is a billable line. ProductID zero means a free-form line
// with no catalog reference.
type LineRequest struct {
	ProductID       int64   `json:"product_id" validate:"gte=0"`
	ProductName     string  `json:"product_name" validate:"required,max=200"`
	Quantity        float64 `json:"quantity" validate:"gte=0"`
	UnitPrice       float64 `json:"unit_price" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
}

type CreateDocumentRequest struct {
	Kind            DocumentKind  `json:"kind" validate:"required,oneof=ORDER DELIVERY INVOICE CREDIT_NOTE RETURN"`
	ClientID        int64         `json:"client_id" validate:"required,gt=0"`
	Date            time.Time     `json:"date" validate:"required"`
	TaxRatePercent  float64       `json:"tax_rate_percent" validate:"oneof=0 7 19"`
	FodecApplicable bool          `json:"fodec_applicable"`
	StampAmount     float64       `json:"stamp_amount" validate:"gte=0"`
	Notes           *string       `json:"notes,omitempty"`
	Lines           []LineRequest `json:"lines" validate:"dive"`
	SourceIDs       []int64       `json:"source_ids,omitempty" validate:"dive,gt=0"`
}

type UpdateDocumentRequest struct {
	Date            *time.Time     `json:"date,omitempty"`
	TaxRatePercent  *float64       `json:"tax_rate_percent,omitempty" validate:"omitempty,oneof=0 7 19"`
	FodecApplicable *bool          `json:"fodec_applicable,omitempty"`
	StampAmount     *float64       `json:"stamp_amount,omitempty" validate:"omitempty,gte=0"`
	Notes           *string        `json:"notes,omitempty"`
	Lines           *[]LineRequest `json:"lines,omitempty" validate:"omitempty,dive"`
	SourceIDs       *[]int64       `json:"source_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

type ListDocumentsRequest struct {
	Kind     *DocumentKind `json:"kind,omitempty" validate:"omitempty,oneof=ORDER DELIVERY INVOICE CREDIT_NOTE RETURN"`
	ClientID *int64        `json:"client_id,omitempty"`
	DateFrom *time.Time    `json:"date_from,omitempty"`
	DateTo   *time.Time    `json:"date_to,omitempty"`
	Search   string        `json:"search,omitempty"`
	Trashed  bool          `json:"trashed"`
	Limit    int           `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int           `json:"offset" validate:"gte=0"`
}

type ListDocumentsResponse struct {
	Documents  []DocumentSummary `json:"documents"`
	Total      int               `json:"total"`
	Pagination shared.Pagination `json:"pagination"`
}

type LinkSourceResponse struct {
	Document *Document `json:"document"`
	Warning  string    `json:"warning,omitempty"`
}
