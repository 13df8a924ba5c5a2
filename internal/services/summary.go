package services

import (
	"fmt"

	"github.com/tpworkshop/garage-quotes/internal/models"
)

// LineSummary is one computed table row.
type LineSummary struct {
	Product  models.Product `json:"product"`
	Subtotal float64        `json:"subtotal"`
	VAT      float64        `json:"vat"`
	Total    float64        `json:"total"`
}

// CategorySummary accumulates the lines of one category plus running sums.
type CategorySummary struct {
	Code     string        `json:"code"`
	Label    string        `json:"label"`
	Lines    []LineSummary `json:"lines"`
	Subtotal float64       `json:"subtotal"`
	VAT      float64       `json:"vat"`
	Total    float64       `json:"total"`
}

// QuoteSummary is the grouped-and-totaled projection rendered by the quote
// table, the print page and the PDF.
type QuoteSummary struct {
	QuoteID    string            `json:"quoteId"`
	Categories []CategorySummary `json:"categories"`
	Subtotal   float64           `json:"subtotal"`
	VAT        float64           `json:"vat"`
	Total      float64           `json:"total"`
}

// SummaryService computes quote breakdowns. It performs no persistence.
type SummaryService struct{}

func NewSummaryService() *SummaryService { return &SummaryService{} }

// Summarize groups products by category and rolls up subtotal, VAT and total
// per line, per category and for the whole quote. Categories come out in the
// fixed 1,2,3 order; lines keep the input order. Grand totals are summed from
// the category accumulators so displayed groups always reconcile. An unknown
// category code is a data bug and returns an error.
func (s *SummaryService) Summarize(quote models.Quote, products []models.Product) (QuoteSummary, error) {
	sum := QuoteSummary{QuoteID: quote.ID}
	byCode := make(map[string]*CategorySummary, len(models.CategoryOrder))

	for _, p := range products {
		label, ok := models.CategoryLabels[p.Category]
		if !ok {
			return QuoteSummary{}, fmt.Errorf("product %s has unknown category %q", p.ID, p.Category)
		}
		subtotal := float64(p.Quantity) * float64(p.UnitPrice)
		line := LineSummary{
			Product:  p,
			Subtotal: subtotal,
			VAT:      subtotal * (float64(p.VAT) / 100),
			Total:    subtotal * ((100 + float64(p.VAT)) / 100),
		}
		group, ok := byCode[p.Category]
		if !ok {
			group = &CategorySummary{Code: p.Category, Label: label}
			byCode[p.Category] = group
		}
		group.Lines = append(group.Lines, line)
		group.Subtotal += line.Subtotal
		group.VAT += line.VAT
		group.Total += line.Total
	}

	for _, code := range models.CategoryOrder {
		group, ok := byCode[code]
		if !ok {
			continue
		}
		sum.Categories = append(sum.Categories, *group)
		sum.Subtotal += group.Subtotal
		sum.VAT += group.VAT
		sum.Total += group.Total
	}
	return sum, nil
}
