package report

import (
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/atelier-erp/atelier-erp/internal/billing"
	"github.com/atelier-erp/atelier-erp/internal/clients"
	"github.com/atelier-erp/atelier-erp/internal/documents"
)

// kindTitles maps document kinds to the printed French title.
var kindTitles = map[documents.DocumentKind]string{
	documents.KindOrder:      "Bon de commande",
	documents.KindDelivery:   "Bon de livraison",
	documents.KindInvoice:    "Facture",
	documents.KindCreditNote: "Avoir",
	documents.KindReturn:     "Bon de retour",
}

var frenchPrinter = message.NewPrinter(language.French)

// dinars formats an amount with French digit grouping and three decimals,
// the millime precision used on printed documents.
func dinars(amount float64) string {
	return frenchPrinter.Sprint(number.Decimal(amount,
		number.MinFractionDigits(3), number.MaxFractionDigits(3)))
}

var documentTemplate = template.Must(template.New("document").Funcs(template.FuncMap{
	"dinars": dinars,
	"rate": func(v float64) string {
		return frenchPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
	},
	"lineTotal": func(l documents.DocumentLine) float64 {
		return billing.NetAmount(l.Quantity, l.UnitPrice, l.DiscountPercent)
	},
}).Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>{{.Title}} {{.Doc.Number}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; margin: 40px; }
h1 { font-size: 18px; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
th, td { border: 1px solid #444; padding: 4px 8px; text-align: left; }
td.num, th.num { text-align: right; }
.totals { margin-top: 16px; width: 40%; margin-left: auto; }
.words { margin-top: 24px; font-style: italic; }
</style>
</head>
<body>
<h1>{{.Title}} N° {{.Doc.Number}}</h1>
<p>Date : {{.Doc.Date.Format "02/01/2006"}}</p>
<p>
Client : {{.Client.Name}}<br>
{{with .Client.Address}}{{.}}<br>{{end}}
{{with .Client.TaxID}}Matricule fiscal : {{.}}{{end}}
</p>
<table>
<tr><th>Désignation</th><th class="num">Quantité</th><th class="num">P.U. HT</th><th class="num">Remise %</th><th class="num">Montant HT</th></tr>
{{range .Doc.Lines}}
<tr>
<td>{{.ProductName}}</td>
<td class="num">{{rate .Quantity}}</td>
<td class="num">{{dinars .UnitPrice}}</td>
<td class="num">{{rate .DiscountPercent}}</td>
<td class="num">{{dinars (lineTotal .)}}</td>
</tr>
{{end}}
</table>
<table class="totals">
<tr><td>Total HT</td><td class="num">{{dinars .Doc.Totals.TotalHT}}</td></tr>
{{if gt .Doc.Totals.TotalFodec 0.0}}<tr><td>FODEC 1%</td><td class="num">{{dinars .Doc.Totals.TotalFodec}}</td></tr>{{end}}
<tr><td>TVA {{rate .Doc.TaxRatePercent}}%</td><td class="num">{{dinars .Doc.Totals.TotalTVA}}</td></tr>
{{if gt .Doc.StampAmount 0.0}}<tr><td>Timbre fiscal</td><td class="num">{{dinars .Doc.StampAmount}}</td></tr>{{end}}
<tr><td><strong>Total TTC</strong></td><td class="num"><strong>{{dinars .Doc.Totals.TotalTTC}}</strong></td></tr>
</table>
{{if .AmountInWords}}<p class="words">Arrêté le présent document à la somme de : {{.AmountInWords}}.</p>{{end}}
</body>
</html>`))

type documentPage struct {
	Title         string
	Doc           *documents.Document
	Client        *clients.Client
	AmountInWords string
}

// BuildDocumentHTML renders the printable HTML of a document. Invoices and
// credit notes carry the legal amount-in-words sentence.
func BuildDocumentHTML(doc *documents.Document, client *clients.Client) (string, error) {
	title, ok := kindTitles[doc.Kind]
	if !ok {
		return "", fmt.Errorf("no template for document kind %q", doc.Kind)
	}

	page := documentPage{Title: title, Doc: doc, Client: client}
	if doc.Kind == documents.KindInvoice || doc.Kind == documents.KindCreditNote {
		page.AmountInWords = billing.AmountInWords(doc.Totals.TotalTTC)
	}

	var buf strings.Builder
	if err := documentTemplate.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("render document template: %w", err)
	}
	return buf.String(), nil
}

// FileName derives the PDF file name from the document number.
func FileName(doc *documents.Document) string {
	return doc.Number + ".pdf"
}
