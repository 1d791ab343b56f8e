package core

import (
	"sort"
	"time"
)

// AggregatedGroup folds every ledger entry sharing a normalized particulars
// key into running totals. Groups are derived on demand from the full entry
// list and never persisted.
type AggregatedGroup struct {
	Particulars   string // display form: casing of the first entry seen
	SequenceNo    string // of the most recently dated transaction
	DRNo          string
	Remarks       string
	TotalAmount   Money
	TotalPaid     Money
	TotalBalance  Money
	TotalQuantity float64
	TotalReceived Money
	TotalConsumed Money
	Unit          string
	LastUpdated   string // YYYY-MM-DD, empty if no transaction has a parseable date
	Transactions  []LedgerEntry
}

// MaterialStock is the material-flow projection of an aggregated group.
type MaterialStock struct {
	Particulars string
	Unit        string
	Quantity    float64
	Received    Money
	Consumed    Money
	InStock     Money
	LastUpdated string
}

// Aggregate partitions entries by their normalized particulars key and folds
// each partition into one group. The fold is a pure function of the input:
// aggregating the same list twice yields identical groups, and the sum of
// group totals always equals the sum over the input entries.
//
// The group's SequenceNo, DRNo and Remarks track the transaction with the
// most recent date, ties broken last-seen-wins. Entries whose date does not
// parse never win LastUpdated; use Malformed to surface them.
//
// Groups are returned most recently touched first.
func Aggregate(entries []LedgerEntry) []AggregatedGroup {
	groups := make(map[string]*AggregatedGroup)
	var order []string

	lastDate := make(map[string]time.Time)

	for _, e := range entries {
		key := GroupKey(e.Particulars)
		g, ok := groups[key]
		if !ok {
			g = &AggregatedGroup{
				Particulars: e.Particulars,
				SequenceNo:  e.SequenceNo,
				DRNo:        e.DRNo,
				Remarks:     e.Remarks,
				Unit:        e.Unit,
			}
			groups[key] = g
			order = append(order, key)
		}

		g.TotalAmount.Paise += e.Amount.Paise
		g.TotalPaid.Paise += e.Paid.Paise
		g.TotalBalance.Paise += e.Balance.Paise
		g.TotalQuantity += e.Quantity
		g.TotalReceived.Paise += e.Received.Paise
		g.TotalConsumed.Paise += e.Consumed.Paise
		if g.Unit == "" {
			g.Unit = e.Unit
		}
		g.Transactions = append(g.Transactions, e)

		d, err := ParseDate(e.Date)
		if err != nil {
			// Unparsable dates never take over LastUpdated.
			continue
		}
		if prev, seen := lastDate[key]; !seen || !d.Before(prev) {
			lastDate[key] = d
			g.LastUpdated = d.Format(DateLayout)
			g.SequenceNo = e.SequenceNo
			g.DRNo = e.DRNo
			g.Remarks = e.Remarks
		}
	}

	out := make([]AggregatedGroup, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	// Most recently touched first; groups without any valid date sink to
	// the bottom in first-seen order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastUpdated > out[j].LastUpdated
	})
	return out
}

// Recent returns at most n groups, most recently touched first. It backs the
// dashboard "recent activity" widget (n = 5 there).
func Recent(entries []LedgerEntry, n int) []AggregatedGroup {
	groups := Aggregate(entries)
	if n >= 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// Malformed returns the entries whose date field does not parse. Such
// entries still contribute to totals but are excluded from recency
// decisions.
func Malformed(entries []LedgerEntry) []LedgerEntry {
	var out []LedgerEntry
	for _, e := range entries {
		if _, err := ParseDate(e.Date); err != nil {
			out = append(out, e)
		}
	}
	return out
}

// MaterialView projects aggregated groups into the material-tracking view.
// It relies on Received/Consumed having been normalized at append time.
func MaterialView(groups []AggregatedGroup) []MaterialStock {
	out := make([]MaterialStock, 0, len(groups))
	for _, g := range groups {
		out = append(out, MaterialStock{
			Particulars: g.Particulars,
			Unit:        g.Unit,
			Quantity:    g.TotalQuantity,
			Received:    g.TotalReceived,
			Consumed:    g.TotalConsumed,
			InStock:     Money{Paise: g.TotalReceived.Paise - g.TotalConsumed.Paise},
			LastUpdated: g.LastUpdated,
		})
	}
	return out
}
