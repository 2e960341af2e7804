package infra

// pdf.go generates the printable invoice using go-pdf/fpdf. Half-letter
// portrait, with the sale lines, discount/tax breakdown and paid amounts.
// The output file is saved to storagePath/factura_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"paintpos/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateFacturaPDF renders an invoice to disk and returns the absolute path.
// The factura must come with Detalles, Pagos, Serie and Cliente preloaded.
func GenerateFacturaPDF(f *model.Factura, empresa, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("factura_%s.pdf", f.NumeroMostrado())
	filePath := filepath.Join(storagePath, fileName)

	// Half letter, 140mm × 216mm
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 140, Ht: 216},
	})
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 16

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, empresa, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Factura de Venta", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Factura N° %s", f.NumeroMostrado()), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, f.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if f.Cliente != nil {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Cliente: %s  NIT: %s", f.Cliente.Nombre, f.Cliente.NIT), "", 1, "L", false, 0, "")
	}
	if f.Sucursal != nil {
		pdf.CellFormat(contentW, 5, "Sucursal: "+f.Sucursal.Nombre, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(8, pdf.GetY(), pageW-8, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.44 // producto
	col2 := contentW * 0.12 // cantidad
	col3 := contentW * 0.22 // precio unitario
	col4 := contentW * 0.22 // subtotal

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "P. Unit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range f.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		if d.Unidad != nil {
			nombre += " (" + d.Unidad.Abreviatura + ")"
		}
		if len(nombre) > 34 {
			nombre = nombre[:33] + "…"
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", d.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "Q"+d.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "Q"+d.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(8, pdf.GetY(), pageW-8, pdf.GetY())
	pdf.Ln(2)

	labelW := col1 + col2 + col3
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(labelW, 5, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Q"+f.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	if !f.Descuento.IsZero() {
		pdf.CellFormat(labelW, 5, "Descuento:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "-Q"+f.Descuento.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !f.Impuesto.IsZero() {
		pdf.CellFormat(labelW, 5, "Impuesto:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "Q"+f.Impuesto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelW, 7, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 7, "Q"+f.Total.StringFixed(2), "", 1, "R", false, 0, "")

	if len(f.Pagos) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 8)
		for _, p := range f.Pagos {
			label := "Pago:"
			if p.MetodoPago != nil {
				label = "Pago (" + p.MetodoPago.Nombre + "):"
			}
			pdf.CellFormat(labelW, 4, label, "", 0, "R", false, 0, "")
			pdf.CellFormat(col4, 4, "Q"+p.Monto.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "¡Gracias por su compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
