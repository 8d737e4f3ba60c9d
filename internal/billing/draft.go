package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrLineOutOfRange indicates an invalid line index.
	ErrLineOutOfRange = errors.New("line index out of range")
	// ErrInvalidTaxRate indicates a tax rate outside the enumerated set.
	ErrInvalidTaxRate = errors.New("invalid tax rate")
	// ErrInvalidLine indicates a negative quantity or unit price.
	ErrInvalidLine = errors.New("invalid line values")
	// ErrSourceNotLinked indicates an unlink of a document that is not linked.
	ErrSourceNotLinked = errors.New("source document not linked")
)

// Draft is the in-memory model of the document being edited. All mutations
// go through its methods and every mutation recomputes the totals from the
// full current line set, so Totals can never drift from the lines.
type Draft struct {
	ClientID        int64   `json:"client_id"`
	TaxRatePercent  float64 `json:"tax_rate_percent"`
	FodecApplicable bool    `json:"fodec_applicable"`
	StampAmount     float64 `json:"stamp_amount"`

	// DeliveryBased marks documents assembled from delivery notes. FODEC and
	// stamp duty apply only to final cash invoices; Recompute clears both
	// fields for these so a stored document never advertises a surcharge its
	// totals exclude.
	DeliveryBased bool `json:"delivery_based"`

	Lines     []Line  `json:"lines"`
	SourceIDs []int64 `json:"source_ids,omitempty"`

	Totals Totals `json:"totals"`
}

// NewDraft creates an empty draft for a client.
func NewDraft(clientID int64, taxRatePercent float64) (*Draft, error) {
	if !ValidTaxRate(taxRatePercent) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidTaxRate, taxRatePercent)
	}
	d := &Draft{ClientID: clientID, TaxRatePercent: taxRatePercent}
	d.Recompute()
	return d, nil
}

// Recompute re-derives the totals from the full current line set. A
// delivery-based draft loses FODEC and stamp duty entirely, the stored
// fields included.
func (d *Draft) Recompute() {
	if d.DeliveryBased {
		d.FodecApplicable = false
		d.StampAmount = 0
	}
	d.Totals = ComputeTotals(d.Lines, d.TaxRatePercent, d.FodecApplicable, d.StampAmount)
}

// AddManualLine adds a manually entered product line. Re-adding a product
// that already exists as a manual line increases that line's quantity
// instead of creating a duplicate. Inherited lines are never merged into,
// and free-form lines without a catalog product (productID zero) always
// stay separate.
func (d *Draft) AddManualLine(productID int64, productName string, quantity, unitPrice, discountPercent float64) error {
	if quantity < 0 || unitPrice < 0 || discountPercent < 0 || discountPercent > 100 {
		return ErrInvalidLine
	}
	for i := range d.Lines {
		if productID != 0 && d.Lines[i].ProductID == productID && !d.Lines[i].Inherited() {
			d.Lines[i].Quantity += quantity
			d.Recompute()
			return nil
		}
	}
	d.Lines = append(d.Lines, Line{
		ProductID:       productID,
		ProductName:     productName,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		DiscountPercent: discountPercent,
	})
	d.Recompute()
	return nil
}

// UpdateLine replaces the editable values of the line at index.
func (d *Draft) UpdateLine(index int, quantity, unitPrice, discountPercent float64) error {
	if index < 0 || index >= len(d.Lines) {
		return ErrLineOutOfRange
	}
	if quantity < 0 || unitPrice < 0 || discountPercent < 0 || discountPercent > 100 {
		return ErrInvalidLine
	}
	d.Lines[index].Quantity = quantity
	d.Lines[index].UnitPrice = unitPrice
	d.Lines[index].DiscountPercent = discountPercent
	d.Recompute()
	return nil
}

// RemoveLine deletes the line at index, preserving the order of the rest.
func (d *Draft) RemoveLine(index int) error {
	if index < 0 || index >= len(d.Lines) {
		return ErrLineOutOfRange
	}
	d.Lines = append(d.Lines[:index], d.Lines[index+1:]...)
	d.Recompute()
	return nil
}

// SetTaxRate changes the VAT rate.
func (d *Draft) SetTaxRate(rate float64) error {
	if !ValidTaxRate(rate) {
		return fmt.Errorf("%w: %g", ErrInvalidTaxRate, rate)
	}
	d.TaxRatePercent = rate
	d.Recompute()
	return nil
}

// SetStamp changes the fiscal stamp duty.
func (d *Draft) SetStamp(amount float64) error {
	if amount < 0 {
		return ErrInvalidLine
	}
	d.StampAmount = amount
	d.Recompute()
	return nil
}

// SetFodec toggles the FODEC surcharge.
func (d *Draft) SetFodec(applicable bool) {
	d.FodecApplicable = applicable
	d.Recompute()
}

// Linked reports whether sourceID is already folded into the draft.
func (d *Draft) Linked(sourceID int64) bool {
	for _, id := range d.SourceIDs {
		if id == sourceID {
			return true
		}
	}
	return false
}

// LinkSource folds the full line set of a delivery note into the draft,
// tagging each inherited line with its source. Linking an already linked
// document is a no-op reported through the return value so the caller can
// warn the user. A product appearing in several linked documents stays as
// separate lines per source: each line is a distinct billable event tied to
// its delivery note, quantities are not merged.
func (d *Draft) LinkSource(sourceID int64, lines []Line) bool {
	if d.Linked(sourceID) {
		return false
	}
	d.SourceIDs = append(d.SourceIDs, sourceID)
	d.DeliveryBased = true
	for _, l := range lines {
		l.SourceDocumentID = sourceID
		d.Lines = append(d.Lines, l)
	}
	d.Recompute()
	return true
}

// UnlinkSource removes exactly the lines inherited from sourceID along with
// the link itself.
func (d *Draft) UnlinkSource(sourceID int64) error {
	if !d.Linked(sourceID) {
		return ErrSourceNotLinked
	}
	kept := d.Lines[:0]
	for _, l := range d.Lines {
		if l.SourceDocumentID != sourceID {
			kept = append(kept, l)
		}
	}
	d.Lines = kept

	ids := d.SourceIDs[:0]
	for _, id := range d.SourceIDs {
		if id != sourceID {
			ids = append(ids, id)
		}
	}
	d.SourceIDs = ids
	d.DeliveryBased = len(d.SourceIDs) > 0
	d.Recompute()
	return nil
}

// ManualLines returns the lines entered by hand, in display order.
func (d *Draft) ManualLines() []Line {
	var out []Line
	for _, l := range d.Lines {
		if !l.Inherited() {
			out = append(out, l)
		}
	}
	return out
}
