package core

import "testing"

func TestParseDecimalToPaise(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"1500", 150000, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToPaise(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseOptionalPaise(t *testing.T) {
	got, err := ParseOptionalPaise("")
	if err != nil || got != 0 {
		t.Fatalf("empty expected 0, got %d (err=%v)", got, err)
	}
	got, err = ParseOptionalPaise("  ")
	if err != nil || got != 0 {
		t.Fatalf("blank expected 0, got %d (err=%v)", got, err)
	}
	got, err = ParseOptionalPaise("12.34")
	if err != nil || got != 1234 {
		t.Fatalf("expected 1234, got %d (err=%v)", got, err)
	}
	if _, err := ParseOptionalPaise("nope"); err == nil {
		t.Fatalf("expected error for garbage")
	}
}

func TestFormatRupees(t *testing.T) {
	cases := []struct {
		paise int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{100, "1.00"},
		{150000, "1500.00"},
		{123456, "1234.56"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := FormatRupees(tc.paise); got != tc.want {
			t.Fatalf("%d expected %q, got %q", tc.paise, tc.want, got)
		}
	}
}
