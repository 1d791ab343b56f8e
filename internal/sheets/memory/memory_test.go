package memory

import (
	"context"
	"testing"

	ports "sitebook/internal/sheets"
)

func TestSinkAppendAndRows(t *testing.T) {
	s := New()

	ref, err := s.AppendRows(context.Background(), "Green Villa (all)", []ports.ReportRow{
		{Particulars: "Cement", Date: "2024-01-05", Amount: 1500},
	})
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	ref, err = s.AppendRows(context.Background(), "Green Villa (all)", []ports.ReportRow{
		{Particulars: "Steel", Date: "2024-01-06", Amount: 2500},
	})
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected second append: ref=%q err=%v", ref, err)
	}

	rows := s.Rows()
	if len(rows) != 2 || rows[0].Particulars != "Cement" || rows[1].Particulars != "Steel" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	// Rows returns a copy.
	rows[0].Particulars = "tampered"
	if s.Rows()[0].Particulars != "Cement" {
		t.Fatal("internal rows mutated through accessor")
	}
}
