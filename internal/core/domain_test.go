package core

import (
	"errors"
	"testing"
)

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Paise: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Paise: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Paise: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestGroupKey(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Cement", "cement"},
		{"cement", "cement"},
		{"  Steel Rods  ", "steel rods"},
		{"SAND", "sand"},
	}
	for _, tc := range cases {
		if got := GroupKey(tc.in); got != tc.want {
			t.Fatalf("%q expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate(" 2024-01-05 ")
	if err != nil || got != "2024-01-05" {
		t.Fatalf("expected 2024-01-05, got %q (err=%v)", got, err)
	}
	if _, err := NormalizeDate("05/01/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := NormalizeDate(""); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for empty, got %v", err)
	}
}

func validEntry() LedgerEntry {
	return LedgerEntry{
		Particulars: "Cement",
		Date:        "2024-01-05",
		Amount:      Money{Paise: 150000},
		Paid:        Money{Paise: 130000},
		Balance:     Money{Paise: 20000},
	}
}

func TestLedgerEntryValidate(t *testing.T) {
	if err := validEntry().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*LedgerEntry)
		want   error
	}{
		{"missing particulars", func(e *LedgerEntry) { e.Particulars = "  " }, ErrMissingParticulars},
		{"missing date", func(e *LedgerEntry) { e.Date = "" }, ErrMissingDate},
		{"bad date", func(e *LedgerEntry) { e.Date = "Jan 5" }, ErrInvalidDate},
		{"zero amount", func(e *LedgerEntry) { e.Amount = Money{}; e.Paid = Money{}; e.Balance = Money{} }, ErrInvalidAmount},
		{"paid exceeds amount", func(e *LedgerEntry) { e.Paid = Money{Paise: 200000}; e.Balance = Money{Paise: -50000} }, ErrPaidExceedsAmount},
		{"negative paid", func(e *LedgerEntry) { e.Paid = Money{Paise: -1}; e.Balance = Money{Paise: 150001} }, ErrInvalidAmount},
	}
	for _, tc := range cases {
		e := validEntry()
		tc.mutate(&e)
		if err := e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// Broken balance invariant is rejected even when fields are otherwise fine.
	e := validEntry()
	e.Balance = Money{Paise: 1}
	if err := e.Validate(); err == nil {
		t.Fatalf("expected error for broken balance invariant")
	}
}

func TestLedgerEntryNormalize(t *testing.T) {
	e := validEntry()
	n := e.Normalize()
	if n.Received.Paise != e.Amount.Paise {
		t.Fatalf("expected received to default to amount, got %d", n.Received.Paise)
	}
	if n.Consumed.Paise != e.Paid.Paise {
		t.Fatalf("expected consumed to default to paid, got %d", n.Consumed.Paise)
	}

	// Explicit values survive normalization.
	e.Received = Money{Paise: 111}
	e.Consumed = Money{Paise: 222}
	n = e.Normalize()
	if n.Received.Paise != 111 || n.Consumed.Paise != 222 {
		t.Fatalf("expected explicit values kept, got %d/%d", n.Received.Paise, n.Consumed.Paise)
	}
}

func TestProjectValidate(t *testing.T) {
	good := Project{Name: "Villa", Budget: Money{Paise: 1000000}, StartDate: "2024-01-01"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Project{Budget: Money{Paise: 100}}).Validate(); !errors.Is(err, ErrMissingName) {
		t.Fatalf("expected ErrMissingName")
	}
	if err := (Project{Name: "Villa"}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero budget")
	}
	bad := good
	bad.StartDate = "01-01-2024"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate")
	}
}

func TestLabourBillValidateAndOutstanding(t *testing.T) {
	b := LabourBill{
		Contractor: "R.K. Constructions",
		Date:       "2024-03-10",
		Amount:     Money{Paise: 500000},
		Paid:       Money{Paise: 200000},
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if got := b.Outstanding().Paise; got != 300000 {
		t.Fatalf("expected outstanding 300000, got %d", got)
	}

	b.Paid = Money{Paise: 600000}
	if err := b.Validate(); !errors.Is(err, ErrPaidExceedsAmount) {
		t.Fatalf("expected ErrPaidExceedsAmount")
	}
}

func TestDrawingStatus(t *testing.T) {
	for _, s := range []DrawingStatus{DrawingPending, DrawingApproved, DrawingRejected} {
		if !s.IsValid() {
			t.Fatalf("%s expected valid", s)
		}
	}
	if DrawingStatus("draft").IsValid() {
		t.Fatalf("draft expected invalid")
	}
}
