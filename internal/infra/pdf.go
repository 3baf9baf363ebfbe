package infra

// pdf.go — Order receipt generation using go-pdf/fpdf.
// Generates an A5 receipt with the order number, customer data, line items,
// totals breakdown and shipping address. The output file is saved to
// storagePath/recibo_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"ecommerce/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarReciboPDF renders the PDF receipt for a confirmed order.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerarReciboPDF(orden *model.Orden, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s.pdf", orden.NumeroOrden)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Comprobante de Orden", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Orden #"+orden.NumeroOrden, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, orden.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if orden.Cliente != nil {
		pdf.CellFormat(contentW, 5, "Cliente: "+orden.Cliente.Nombre, "", 1, "L", false, 0, "")
	}
	if orden.DireccionEnvio != nil && *orden.DireccionEnvio != "" {
		pdf.CellFormat(contentW, 5, "Envío: "+*orden.DireccionEnvio, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.46 // product name
	col2 := contentW * 0.14 // qty
	col3 := contentW * 0.20 // unit price
	col4 := contentW * 0.20 // subtotal

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Precio", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range orden.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		if len(nombre) > 30 {
			nombre = nombre[:29] + "…"
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", d.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+d.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "$"+d.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	labelW := col1 + col2 + col3
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(labelW, 5, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "$"+orden.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	if !orden.Descuento.IsZero() {
		pdf.CellFormat(labelW, 5, "Descuento:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "-$"+orden.Descuento.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !orden.Impuesto.IsZero() {
		pdf.CellFormat(labelW, 5, "Impuesto:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "$"+orden.Impuesto.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !orden.CostoEnvio.IsZero() {
		pdf.CellFormat(labelW, 5, "Envío:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "$"+orden.CostoEnvio.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelW, 7, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "$"+orden.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "¡Gracias por su compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
