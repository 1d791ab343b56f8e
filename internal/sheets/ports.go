package sheets

import (
	"context"

	"sitebook/internal/core"
)

// Header is the stable column order of every exported report. Exports and
// external spreadsheet consumers rely on this order not changing.
var Header = []string{"Particulars", "Date", "Amount", "Paid", "Balance", "Unit", "Quantity", "Remarks"}

// ReportRow is one spreadsheet row in Header order.
type ReportRow struct {
	Particulars string
	Date        string
	Amount      float64
	Paid        float64
	Balance     float64
	Unit        string
	Quantity    float64
	Remarks     string
}

// Ports for outbound adapters.
type (
	// ReportWriter appends report rows to an external spreadsheet and
	// returns a reference to where they landed.
	ReportWriter interface {
		AppendRows(ctx context.Context, sheetTitle string, rows []ReportRow) (ref string, err error)
	}
)

// RowFromEntry projects a ledger entry into its export row. Monetary
// values are exported in rupees since the spreadsheet is a display
// surface.
func RowFromEntry(e core.LedgerEntry) ReportRow {
	return ReportRow{
		Particulars: e.Particulars,
		Date:        e.Date,
		Amount:      e.Amount.Rupees(),
		Paid:        e.Paid.Rupees(),
		Balance:     e.Balance.Rupees(),
		Unit:        e.Unit,
		Quantity:    e.Quantity,
		Remarks:     e.Remarks,
	}
}

// RowsFromEntries converts entries in order.
func RowsFromEntries(entries []core.LedgerEntry) []ReportRow {
	rows := make([]ReportRow, len(entries))
	for i, e := range entries {
		rows[i] = RowFromEntry(e)
	}
	return rows
}

// RowFromGroup projects an aggregated group into its export row.
func RowFromGroup(g core.AggregatedGroup) ReportRow {
	return ReportRow{
		Particulars: g.Particulars,
		Date:        g.LastUpdated,
		Amount:      g.TotalAmount.Rupees(),
		Paid:        g.TotalPaid.Rupees(),
		Balance:     g.TotalBalance.Rupees(),
		Unit:        g.Unit,
		Quantity:    g.TotalQuantity,
		Remarks:     g.Remarks,
	}
}

// Values renders the row in Header order for spreadsheet APIs.
func (r ReportRow) Values() []any {
	return []any{r.Particulars, r.Date, r.Amount, r.Paid, r.Balance, r.Unit, r.Quantity, r.Remarks}
}
