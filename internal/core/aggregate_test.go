package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func entry(seq, particulars, date string, amount, paid int64) LedgerEntry {
	return LedgerEntry{
		ID:          "id-" + seq,
		SequenceNo:  seq,
		Particulars: particulars,
		Date:        date,
		Amount:      Money{Paise: amount},
		Paid:        Money{Paise: paid},
		Balance:     Money{Paise: amount - paid},
	}
}

func TestAggregateFoldsCaseInsensitively(t *testing.T) {
	entries := []LedgerEntry{
		entry("01", "Cement", "2024-01-03", 100000, 90000),
		entry("02", "cement", "2024-01-05", 50000, 40000),
		entry("03", "Steel", "2024-01-04", 200000, 200000),
	}

	groups := Aggregate(entries)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	// Cement was touched last, so it sorts first.
	g := groups[0]
	if g.Particulars != "Cement" {
		t.Fatalf("expected first-seen casing Cement, got %q", g.Particulars)
	}
	if g.TotalAmount.Paise != 150000 || g.TotalPaid.Paise != 130000 || g.TotalBalance.Paise != 20000 {
		t.Fatalf("unexpected totals: %d/%d/%d", g.TotalAmount.Paise, g.TotalPaid.Paise, g.TotalBalance.Paise)
	}
	if g.LastUpdated != "2024-01-05" {
		t.Fatalf("expected last updated 2024-01-05, got %q", g.LastUpdated)
	}
	if g.SequenceNo != "02" {
		t.Fatalf("expected sequence of latest transaction, got %q", g.SequenceNo)
	}
	if len(g.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(g.Transactions))
	}

	if groups[1].Particulars != "Steel" {
		t.Fatalf("expected Steel second, got %q", groups[1].Particulars)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	entries := []LedgerEntry{
		entry("01", "Sand", "2024-02-01", 30000, 10000),
		entry("02", "Bricks", "2024-02-02", 80000, 80000),
		entry("03", "sand", "2024-02-03", 20000, 5000),
	}

	first := Aggregate(entries)
	second := Aggregate(entries)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("aggregation not deterministic (-first +second):\n%s", diff)
	}
}

func TestAggregatePreservesSums(t *testing.T) {
	entries := []LedgerEntry{
		entry("01", "Cement", "2024-01-01", 100, 50),
		entry("02", "Steel", "2024-01-02", 200, 100),
		entry("03", "cement", "2024-01-03", 300, 150),
		entry("04", "Paint", "bad-date", 400, 200),
	}

	var wantAmount, wantPaid, wantBalance int64
	for _, e := range entries {
		wantAmount += e.Amount.Paise
		wantPaid += e.Paid.Paise
		wantBalance += e.Balance.Paise
	}

	var gotAmount, gotPaid, gotBalance int64
	var txCount int
	for _, g := range Aggregate(entries) {
		gotAmount += g.TotalAmount.Paise
		gotPaid += g.TotalPaid.Paise
		gotBalance += g.TotalBalance.Paise
		txCount += len(g.Transactions)
	}

	if gotAmount != wantAmount || gotPaid != wantPaid || gotBalance != wantBalance {
		t.Fatalf("group sums %d/%d/%d do not match entry sums %d/%d/%d",
			gotAmount, gotPaid, gotBalance, wantAmount, wantPaid, wantBalance)
	}
	if txCount != len(entries) {
		t.Fatalf("expected %d transactions across groups, got %d", len(entries), txCount)
	}
}

func TestAggregateTiesGoToLastSeen(t *testing.T) {
	entries := []LedgerEntry{
		entry("01", "Cement", "2024-01-05", 100, 0),
		entry("02", "Cement", "2024-01-05", 200, 0),
	}
	g := Aggregate(entries)[0]
	if g.SequenceNo != "02" {
		t.Fatalf("expected last-seen entry to win the tie, got %q", g.SequenceNo)
	}
}

func TestAggregateInvalidDatesNeverWin(t *testing.T) {
	entries := []LedgerEntry{
		entry("01", "Cement", "2024-01-05", 100, 0),
		entry("02", "Cement", "not-a-date", 200, 0),
	}
	g := Aggregate(entries)[0]
	if g.LastUpdated != "2024-01-05" {
		t.Fatalf("expected last updated 2024-01-05, got %q", g.LastUpdated)
	}
	if g.SequenceNo != "01" {
		t.Fatalf("expected dated entry to keep recency, got %q", g.SequenceNo)
	}
	// The malformed entry still contributes to totals.
	if g.TotalAmount.Paise != 300 {
		t.Fatalf("expected total 300, got %d", g.TotalAmount.Paise)
	}
}

func TestAggregateGroupsWithoutDatesSink(t *testing.T) {
	entries := []LedgerEntry{
		entry("01", "Mystery", "??", 100, 0),
		entry("02", "Cement", "2024-01-01", 100, 0),
	}
	groups := Aggregate(entries)
	if groups[0].Particulars != "Cement" || groups[1].Particulars != "Mystery" {
		t.Fatalf("expected undated group last, got %q then %q", groups[0].Particulars, groups[1].Particulars)
	}
	if groups[1].LastUpdated != "" {
		t.Fatalf("expected empty LastUpdated, got %q", groups[1].LastUpdated)
	}
}

func TestRecent(t *testing.T) {
	var entries []LedgerEntry
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07"}
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i := range names {
		entries = append(entries, entry("0"+string(rune('1'+i)), names[i], dates[i], 100, 0))
	}

	recent := Recent(entries, 5)
	if len(recent) != 5 {
		t.Fatalf("expected 5 groups, got %d", len(recent))
	}
	if recent[0].Particulars != "G" || recent[4].Particulars != "C" {
		t.Fatalf("unexpected ordering: %q ... %q", recent[0].Particulars, recent[4].Particulars)
	}

	if got := Recent(entries, 100); len(got) != len(names) {
		t.Fatalf("expected all groups when n exceeds count, got %d", len(got))
	}
}

func TestMalformed(t *testing.T) {
	entries := []LedgerEntry{
		entry("01", "Cement", "2024-01-05", 100, 0),
		entry("02", "Steel", "sometime", 100, 0),
		entry("03", "Sand", "", 100, 0),
	}
	bad := Malformed(entries)
	if len(bad) != 2 {
		t.Fatalf("expected 2 malformed entries, got %d", len(bad))
	}
	if bad[0].SequenceNo != "02" || bad[1].SequenceNo != "03" {
		t.Fatalf("unexpected malformed entries: %q, %q", bad[0].SequenceNo, bad[1].SequenceNo)
	}
}

func TestMaterialView(t *testing.T) {
	e1 := entry("01", "Cement", "2024-01-05", 150000, 130000)
	e1.Unit = "bags"
	e1.Quantity = 50
	e1 = e1.Normalize()
	e2 := entry("02", "cement", "2024-01-06", 50000, 20000)
	e2.Quantity = 20
	e2 = e2.Normalize()

	stocks := MaterialView(Aggregate([]LedgerEntry{e1, e2}))
	if len(stocks) != 1 {
		t.Fatalf("expected 1 stock row, got %d", len(stocks))
	}
	s := stocks[0]
	if s.Unit != "bags" || s.Quantity != 70 {
		t.Fatalf("unexpected unit/quantity: %q/%v", s.Unit, s.Quantity)
	}
	if s.Received.Paise != 200000 || s.Consumed.Paise != 150000 {
		t.Fatalf("unexpected received/consumed: %d/%d", s.Received.Paise, s.Consumed.Paise)
	}
	if s.InStock.Paise != 50000 {
		t.Fatalf("expected in-stock 50000, got %d", s.InStock.Paise)
	}
}
