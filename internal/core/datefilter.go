package core

import (
	"fmt"
	"time"
)

const (
	RangeWeek  DateRange = "1week"
	RangeMonth DateRange = "1month"
	RangeYear  DateRange = "1year"
	RangeAll   DateRange = "all"
)

type DateRange string

// IsValid reports whether the range is one of the supported selections.
func (r DateRange) IsValid() bool {
	switch r {
	case RangeWeek, RangeMonth, RangeYear, RangeAll:
		return true
	default:
		return false
	}
}

// FilterCriterion selects a subset of ledger entries for report views.
// Exact takes precedence over Range when both are set. Particulars, when
// non-empty, additionally restricts to a single group key.
type FilterCriterion struct {
	Exact       string // YYYY-MM-DD, empty for none
	Range       DateRange
	Particulars string
}

// Filter returns the entries matching the criterion. The reference time is
// an explicit argument, so the result is a pure function of
// (entries, criterion, now); range comparisons use calendar-day
// granularity.
func Filter(entries []LedgerEntry, c FilterCriterion, now time.Time) ([]LedgerEntry, error) {
	var exact time.Time
	if c.Exact != "" {
		d, err := ParseDate(c.Exact)
		if err != nil {
			return nil, fmt.Errorf("exact date: %w", err)
		}
		exact = d
	}

	var cutoff time.Time
	if c.Exact == "" && c.Range != "" && c.Range != RangeAll {
		if !c.Range.IsValid() {
			return nil, fmt.Errorf("unknown range %q", c.Range)
		}
		day := truncateToDay(now)
		switch c.Range {
		case RangeWeek:
			cutoff = day.AddDate(0, 0, -7)
		case RangeMonth:
			cutoff = day.AddDate(0, -1, 0)
		case RangeYear:
			cutoff = day.AddDate(-1, 0, 0)
		}
	}

	wantKey := ""
	if c.Particulars != "" {
		wantKey = GroupKey(c.Particulars)
	}

	var out []LedgerEntry
	for _, e := range entries {
		if wantKey != "" && GroupKey(e.Particulars) != wantKey {
			continue
		}
		if c.Exact == "" && cutoff.IsZero() {
			// "all" is the identity filter.
			out = append(out, e)
			continue
		}
		d, err := ParseDate(e.Date)
		if err != nil {
			// Entries without a parseable date never match a dated filter.
			continue
		}
		if c.Exact != "" {
			if d.Equal(exact) {
				out = append(out, e)
			}
			continue
		}
		if !d.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
