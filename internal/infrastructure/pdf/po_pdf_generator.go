// Package pdf implementa la generación del documento imprimible de una orden
// de compra (el que se adjunta al proveedor al marcarla como enviada).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa  │  N° Orden + Fecha + Estado              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: Nombre + contacto                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | SKU | Producto | P.Unit | Subtotal           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + Fecha estimada de entrega + Notas                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stocklane-api/internal/application/usecase"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPOGenerator implementa usecase.PurchaseOrderPDFGenerator usando Maroto v2.
type MarotoPOGenerator struct{}

// NewMarotoPOGenerator construye el generador.
func NewMarotoPOGenerator() *MarotoPOGenerator { return &MarotoPOGenerator{} }

// GeneratePOPDF genera el PDF de la orden y devuelve sus bytes.
func (g *MarotoPOGenerator) GeneratePOPDF(
	_ context.Context,
	po *entity.PurchaseOrder,
	company *entity.Company,
	supplier *entity.Supplier,
	lines []usecase.POItemForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de Compra "+po.PONumber, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(po, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(supplier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(po))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: empresa (izq) y N° de orden + fecha + estado (der).
func headerRow(po *entity.PurchaseOrder, company *entity.Company) core.Row {
	fecha := po.CreatedAt.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(company.Address, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("ORDEN DE COMPRA "+po.PONumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+fecha, props.Text{Size: 9, Align: align.Right, Top: 8, Color: colorGray}),
			text.New("Estado: "+po.Status, props.Text{Size: 9, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

// supplierRow: datos de contacto del proveedor.
func supplierRow(s *entity.Supplier) core.Row {
	contacto := s.ContactInfo.Email
	if s.ContactInfo.Phone != "" {
		contacto += " · " + s.ContactInfo.Phone
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray}),
			text.New(s.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 4}),
			text.New(contacto, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(w int, label string, a align.Type) core.Col {
		return col.New(w).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: a}))
	}
	return row.New(6).Add(
		header(1, "Cant.", align.Right),
		header(2, "SKU", align.Left),
		header(5, "Producto", align.Left),
		header(2, "P. Unit", align.Right),
		header(2, "Subtotal", align.Right),
	)
}

func tableLineRows(lines []usecase.POItemForPDF) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, row.New(5).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Align: align.Right})),
			col.New(2).Add(text.New(l.SKU, props.Text{Size: 8})),
			col.New(5).Add(text.New(l.ProductName, props.Text{Size: 8})),
			col.New(2).Add(text.New("$"+l.UnitPrice.StringFixed(2), props.Text{Size: 8, Align: align.Right})),
			col.New(2).Add(text.New("$"+l.TotalPrice.StringFixed(2), props.Text{Size: 8, Align: align.Right})),
		))
	}
	return rows
}

func totalsRow(po *entity.PurchaseOrder) core.Row {
	entrega := "—"
	if po.ExpectedDelivery != nil {
		entrega = po.ExpectedDelivery.Format("02/01/2006")
	}
	return row.New(12).Add(
		col.New(7).Add(
			text.New("Entrega estimada: "+entrega, props.Text{Size: 9, Color: colorGray, Top: 2}),
			text.New(po.Notes, props.Text{Size: 8, Color: colorGray, Top: 7}),
		),
		col.New(5).Add(
			text.New("TOTAL: $"+po.TotalAmount.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 2,
			}),
		),
	)
}
