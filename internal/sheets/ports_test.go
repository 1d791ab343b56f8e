package sheets

import (
	"testing"

	"sitebook/internal/core"
)

func TestRowFromEntry(t *testing.T) {
	e := core.LedgerEntry{
		Particulars: "Cement",
		Date:        "2024-01-05",
		Amount:      core.Money{Paise: 150000},
		Paid:        core.Money{Paise: 130000},
		Balance:     core.Money{Paise: 20000},
		Unit:        "bags",
		Quantity:    50,
		Remarks:     "first lot",
	}

	r := RowFromEntry(e)
	if r.Particulars != "Cement" || r.Date != "2024-01-05" {
		t.Fatalf("unexpected row: %+v", r)
	}
	if r.Amount != 1500 || r.Paid != 1300 || r.Balance != 200 {
		t.Fatalf("expected rupee values 1500/1300/200, got %v/%v/%v", r.Amount, r.Paid, r.Balance)
	}
	if r.Unit != "bags" || r.Quantity != 50 || r.Remarks != "first lot" {
		t.Fatalf("unexpected material fields: %+v", r)
	}
}

func TestRowFromGroup(t *testing.T) {
	g := core.AggregatedGroup{
		Particulars:   "Steel",
		Remarks:       "tor bars",
		TotalAmount:   core.Money{Paise: 250000},
		TotalPaid:     core.Money{Paise: 200000},
		TotalBalance:  core.Money{Paise: 50000},
		TotalQuantity: 12,
		Unit:          "tonnes",
		LastUpdated:   "2024-01-06",
	}

	r := RowFromGroup(g)
	if r.Particulars != "Steel" || r.Date != "2024-01-06" {
		t.Fatalf("unexpected row: %+v", r)
	}
	if r.Amount != 2500 || r.Paid != 2000 || r.Balance != 500 {
		t.Fatalf("expected rupee totals 2500/2000/500, got %v/%v/%v", r.Amount, r.Paid, r.Balance)
	}
	if r.Quantity != 12 || r.Unit != "tonnes" {
		t.Fatalf("unexpected material fields: %+v", r)
	}
}

func TestValuesMatchHeaderOrder(t *testing.T) {
	r := ReportRow{
		Particulars: "Cement",
		Date:        "2024-01-05",
		Amount:      1500,
		Paid:        1300,
		Balance:     200,
		Unit:        "bags",
		Quantity:    50,
		Remarks:     "first lot",
	}

	values := r.Values()
	if len(values) != len(Header) {
		t.Fatalf("expected %d values, got %d", len(Header), len(values))
	}
	if values[0] != "Cement" || values[1] != "2024-01-05" || values[4] != 200.0 || values[7] != "first lot" {
		t.Fatalf("values out of header order: %v", values)
	}
}

func TestRowsFromEntriesPreservesOrder(t *testing.T) {
	entries := []core.LedgerEntry{
		{Particulars: "Cement", Amount: core.Money{Paise: 100}},
		{Particulars: "Steel", Amount: core.Money{Paise: 200}},
	}
	rows := RowsFromEntries(entries)
	if len(rows) != 2 || rows[0].Particulars != "Cement" || rows[1].Particulars != "Steel" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
