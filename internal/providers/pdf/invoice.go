package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	invoicedomain "github.com/invoq/invoq/internal/invoice/domain"
)

type MarotoRenderer struct{}

func New() Renderer {
	return &MarotoRenderer{}
}

func (r *MarotoRenderer) RenderInvoice(ctx context.Context, doc InvoiceDocument) (io.Reader, error) {
	inv := doc.Invoice

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	title := "Invoice"
	if inv.InvoiceType == invoicedomain.InvoiceTypeProforma {
		title = "Proforma Invoice"
	}
	if inv.IsDraft {
		title += " (Draft)"
	}

	m.AddRow(10,
		text.NewCol(12, title, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	// Invoice meta
	m.AddRow(20,
		col.New(6).Add(
			text.New("Invoice number: "+inv.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+formatDate(inv.InvoiceDate), props.Text{Top: 4}),
			text.New("Date due: "+formatDatePtr(inv.DueDate), props.Text{Top: 8}),
			text.New("Status: "+strings.ToUpper(string(inv.Status)), props.Text{Top: 12}),
		),
		col.New(6),
	)

	// Addresses
	m.AddRow(40,
		col.New(6).Add(
			text.New(doc.Company.Name, props.Text{Style: fontstyle.Bold}),
			text.New(addressLine(doc.Company.Address, doc.Company.City, doc.Company.Country), props.Text{Top: 5}),
			text.New(doc.Company.Email, props.Text{Top: 20}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(doc.Customer.Name, props.Text{Top: 5}),
			text.New(addressLine(doc.Customer.Address, doc.Customer.City, doc.Customer.Country), props.Text{Top: 9}),
			text.New(doc.Customer.Email, props.Text{Top: 25}),
		),
	)

	// Table header
	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range inv.Items {
		m.AddRow(10,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, formatQuantity(item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatMinor(item.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatMinor(item.Total), props.Text{Size: 9, Align: align.Right}),
		)
	}

	// Totals
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, formatMinor(inv.Subtotal), props.Text{Size: 9, Align: align.Right}),
	)
	for _, charge := range inv.AdditionalCharges {
		label := charge.Label
		if label == "" {
			label = string(charge.Kind)
		}
		if charge.IsPercentage {
			label = fmt.Sprintf("%s (%s%%)", label, formatQuantity(charge.Value))
		}
		m.AddRow(10,
			col.New(8),
			text.NewCol(2, label, props.Text{Size: 9}),
			text.NewCol(2, formatMinor(charge.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}
	if inv.OutstandingBill > 0 {
		m.AddRow(10,
			col.New(8),
			text.NewCol(2, "Outstanding", props.Text{Size: 9}),
			text.NewCol(2, formatMinor(inv.OutstandingBill), props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 9}),
		text.NewCol(2, formatMinor(inv.GrandTotal), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Amount paid", props.Text{Size: 9}),
		text.NewCol(2, formatMinor(inv.AmountPaid), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Amount due", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, formatMinor(inv.Balance), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	if inv.Notes != "" {
		m.AddRow(20,
			text.NewCol(12, "Notes: "+inv.Notes, props.Text{Size: 9, Top: 5}),
		)
	}
	if inv.TermsAndConditions != "" {
		m.AddRow(25,
			text.NewCol(12, "Terms: "+inv.TermsAndConditions, props.Text{Size: 8, Top: 5}),
		)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out.GetBytes()), nil
}

// formatMinor renders minor units as a decimal amount.
func formatMinor(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func formatQuantity(q float64) string {
	s := fmt.Sprintf("%.2f", q)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}

func addressLine(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ", ")
}
