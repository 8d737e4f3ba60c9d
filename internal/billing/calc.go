// Package billing implements the document valuation core shared by every
// commercial document form: line valuation, HT/TVA/TTC totals, assembly of
// invoice lines from linked delivery notes and the amount-in-words text
// printed on legal documents.
package billing

// FodecRatePercent is the FODEC surcharge applied to invoice subtotals.
const FodecRatePercent = 1.0

// TaxRates enumerates the VAT rates in use.
var TaxRates = []float64{0, 7, 19}

// Line is one billable unit within a document. A line either was entered
// manually (SourceDocumentID == 0) or inherited from a linked delivery note.
type Line struct {
	ProductID        int64   `json:"product_id"`
	ProductName      string  `json:"product_name"`
	Quantity         float64 `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	DiscountPercent  float64 `json:"discount_percent"`
	SourceDocumentID int64   `json:"source_document_id,omitempty"`
}

// Inherited reports whether the line was pulled from a linked delivery note.
func (l Line) Inherited() bool {
	return l.SourceDocumentID != 0
}

// NetAmount returns the valuation of the line. Never persisted as
// authoritative; always recomputed from quantity, price and discount.
func (l Line) NetAmount() float64 {
	return NetAmount(l.Quantity, l.UnitPrice, l.DiscountPercent)
}

// NetAmount computes quantity × unitPrice × (1 − discountPercent/100).
// Negative quantity or price valuates to 0; the discount range is enforced
// by input validation upstream, not here. No rounding is applied: display
// formatting to three decimals happens at presentation time only.
func NetAmount(quantity, unitPrice, discountPercent float64) float64 {
	if quantity < 0 || unitPrice < 0 {
		return 0
	}
	return quantity * unitPrice * (1 - discountPercent/100)
}

// Totals is the HT/TVA/TTC breakdown of a document.
type Totals struct {
	TotalHT    float64 `json:"total_ht"`
	TotalFodec float64 `json:"total_fodec"`
	TotalHTVA  float64 `json:"total_htva"`
	TotalTVA   float64 `json:"total_tva"`
	TotalTTC   float64 `json:"total_ttc"`
}

// ComputeTotals aggregates line valuations into document totals. It is a
// pure function of the full current line set and must be re-run after every
// mutation; intermediate totals are never cached across mutations.
// An empty line set yields zero totals.
func ComputeTotals(lines []Line, taxRatePercent float64, fodecApplicable bool, stampAmount float64) Totals {
	var t Totals
	for _, l := range lines {
		t.TotalHT += l.NetAmount()
	}
	if fodecApplicable {
		t.TotalFodec = t.TotalHT * FodecRatePercent / 100
	}
	t.TotalHTVA = t.TotalHT + t.TotalFodec
	t.TotalTVA = t.TotalHTVA * taxRatePercent / 100
	t.TotalTTC = t.TotalHTVA + t.TotalTVA + stampAmount
	return t
}

// ValidTaxRate reports whether rate is one of the enumerated VAT rates.
func ValidTaxRate(rate float64) bool {
	for _, r := range TaxRates {
		if r == rate {
			return true
		}
	}
	return false
}
