package worktracking

import "time"

// WorkRecord tracks shop-floor work done for a client before invoicing.
type WorkRecord struct {
	ID          int64      `json:"id"`
	ClientID    int64      `json:"client_id"`
	ClientName  string     `json:"client_name,omitempty"`
	Description string     `json:"description"`
	Hours       float64    `json:"hours"`
	HourlyRate  float64    `json:"hourly_rate"`
	Date        time.Time  `json:"date"`
	InvoiceID   *int64     `json:"invoice_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Billed reports whether the record has been folded into an invoice.
func (w *WorkRecord) Billed() bool {
	return w.InvoiceID != nil
}

type CreateWorkRecordRequest struct {
	ClientID    int64     `json:"client_id" validate:"required,gt=0"`
	Description string    `json:"description" validate:"required,max=500"`
	Hours       float64   `json:"hours" validate:"gt=0"`
	HourlyRate  float64   `json:"hourly_rate" validate:"gte=0"`
	Date        time.Time `json:"date" validate:"required"`
}

type UpdateWorkRecordRequest struct {
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	Hours       *float64   `json:"hours,omitempty" validate:"omitempty,gt=0"`
	HourlyRate  *float64   `json:"hourly_rate,omitempty" validate:"omitempty,gte=0"`
	Date        *time.Time `json:"date,omitempty"`
}

type ListWorkRecordsRequest struct {
	ClientID *int64 `json:"client_id,omitempty"`
	Unbilled bool   `json:"unbilled"`
	Limit    int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int    `json:"offset" validate:"gte=0"`
}

type BillWorkRequest struct {
	ClientID       int64     `json:"client_id" validate:"required,gt=0"`
	RecordIDs      []int64   `json:"record_ids" validate:"required,min=1,dive,gt=0"`
	Date           time.Time `json:"date" validate:"required"`
	TaxRatePercent float64   `json:"tax_rate_percent" validate:"oneof=0 7 19"`
	StampAmount    float64   `json:"stamp_amount" validate:"gte=0"`
}
