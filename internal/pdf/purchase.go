package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/utafrali/BackofficeGo/internal/domain"
)

// Column widths for the line table, in millimetres.
var lineTableWidths = []float64{80, 25, 30, 30}

var lineTableHeaders = []string{"Product", "Qty", "Unit Price", "Line Total"}

// RenderPurchase renders a purchase document: header, customer and date,
// line table, and the grand total.
func RenderPurchase(p *domain.Purchase) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Purchase %s", p.ID), false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, "Purchase Receipt")
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 6, fmt.Sprintf("Reference: %s", p.ID))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Customer: %s", p.CustomerName))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Date: %s", p.Date.Format("2006-01-02")))
	doc.Ln(10)

	// Table header.
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for i, header := range lineTableHeaders {
		doc.CellFormat(lineTableWidths[i], 8, header, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	for _, line := range p.Lines {
		name := line.ProductName
		if line.Description != "" {
			name = fmt.Sprintf("%s (%s)", name, line.Description)
		}
		doc.CellFormat(lineTableWidths[0], 7, name, "1", 0, "L", false, 0, "")
		doc.CellFormat(lineTableWidths[1], 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(lineTableWidths[2], 7, formatMoney(line.UnitPrice), "1", 0, "R", false, 0, "")
		doc.CellFormat(lineTableWidths[3], 7, formatMoney(line.LineTotal()), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(lineTableWidths[0]+lineTableWidths[1]+lineTableWidths[2], 8, "Total", "1", 0, "R", false, 0, "")
	doc.CellFormat(lineTableWidths[3], 8, formatMoney(p.Total), "1", 0, "R", false, 0, "")
	doc.Ln(-1)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render purchase pdf: %w", err)
	}

	return buf.Bytes(), nil
}

// formatMoney renders cents as a decimal amount.
func formatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
