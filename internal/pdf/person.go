package pdf

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/utafrali/BackofficeGo/internal/domain"
)

// Column widths for the people table, in millimetres.
var personTableWidths = []float64{55, 15, 20, 20, 75}

var personTableHeaders = []string{"Name", "Age", "Height", "Weight", "Description"}

// RenderPeopleList renders the full people registry as a table, with zebra
// row shading.
func RenderPeopleList(people []domain.Person) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("People Catalog", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, "People Catalog")
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 6, fmt.Sprintf("Entries: %d", len(people)))
	doc.Ln(10)

	// Table header.
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for i, header := range personTableHeaders {
		doc.CellFormat(personTableWidths[i], 8, header, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	doc.SetFillColor(245, 245, 245)
	for i, person := range people {
		fill := i%2 == 1
		doc.CellFormat(personTableWidths[0], 7, person.Name, "1", 0, "L", fill, 0, "")
		doc.CellFormat(personTableWidths[1], 7, strconv.Itoa(person.Age), "1", 0, "R", fill, 0, "")
		doc.CellFormat(personTableWidths[2], 7, formatMeasure(person.Height), "1", 0, "R", fill, 0, "")
		doc.CellFormat(personTableWidths[3], 7, formatMeasure(person.Weight), "1", 0, "R", fill, 0, "")
		doc.CellFormat(personTableWidths[4], 7, person.Description, "1", 0, "L", fill, 0, "")
		doc.Ln(-1)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render people pdf: %w", err)
	}

	return buf.Bytes(), nil
}

// formatMeasure renders a measurement without trailing zeros.
func formatMeasure(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
