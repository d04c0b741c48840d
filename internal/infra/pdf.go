package infra

// pdf.go — Order confirmation PDF generation using go-pdf/fpdf.
// Produces an A4 confirmation with the order number, customer, item table
// and total. The output file is saved to storagePath/order_{number}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"invtrack/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateOrderPDF writes a confirmation PDF for the order and returns the
// absolute file path. storagePath is created if needed.
func GenerateOrderPDF(order *model.Order, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("order_%s.pdf", strings.ToLower(order.OrderNumber))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Order Confirmation", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, order.OrderNumber, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, order.OrderDate.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	if order.Customer != nil {
		pdf.CellFormat(contentW, 6, order.Customer.FullName(), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Items table ──────────────────────────────────────────────────────────
	col1 := contentW * 0.46 // product
	col2 := contentW * 0.14 // qty
	col3 := contentW * 0.20 // unit price
	col4 := contentW * 0.20 // line total

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 7, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 7, "Unit Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range order.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		if len(name) > 40 {
			name = name[:39] + "…"
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+item.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+item.TotalPrice.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 8, "$"+order.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	if order.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentW, 5, "Notes: "+order.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
