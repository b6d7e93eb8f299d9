package parser

import (
	"testing"
	"time"
)

func TestParseEarning_StringWithThousandsSeparator(t *testing.T) {
	t.Parallel()

	if got := ParseEarning("1,500"); got != 1500 {
		t.Fatalf("ParseEarning(1,500) got=%v, want 1500", got)
	}
	if got := ParseEarning(" 1,234,567.25 "); got != 1234567.25 {
		t.Fatalf("ParseEarning(1,234,567.25) got=%v, want 1234567.25", got)
	}
}

func TestParseEarning_NumbersAndAbsent(t *testing.T) {
	t.Parallel()

	if got := ParseEarning(2.5); got != 2.5 {
		t.Fatalf("float got=%v, want 2.5", got)
	}
	if got := ParseEarning(7); got != 7 {
		t.Fatalf("int got=%v, want 7", got)
	}
	if got := ParseEarning(nil); got != 0 {
		t.Fatalf("nil got=%v, want 0", got)
	}
	if got := ParseEarning(""); got != 0 {
		t.Fatalf("empty got=%v, want 0", got)
	}
}

func TestParseEarning_UnparsableIsZero(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"abc", "--", "NaN", "Inf", "1.2.3"} {
		if got := ParseEarning(in); got != 0 {
			t.Fatalf("ParseEarning(%q) got=%v, want 0", in, got)
		}
	}
}

func TestParseDate_Formats(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-05", "2024/03/05", "03/05/2024", "3/5/2024", "Mar 5, 2024", "March 5, 2024"} {
		got, ok := ParseDate(in)
		if !ok {
			t.Fatalf("ParseDate(%q) not parsed", in)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q) got=%v, want %v", in, got, want)
		}
	}
}

func TestParseDate_ExcelSerial(t *testing.T) {
	t.Parallel()

	got, ok := ParseDate("45356")
	if !ok {
		t.Fatalf("expected excel serial to parse")
	}
	if got.Year() != 2024 || got.Month() != time.March || got.Day() != 5 {
		t.Fatalf("unexpected date: %v", got)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "hôm qua", "12", "2024-13-40"} {
		if _, ok := ParseDate(in); ok {
			t.Fatalf("ParseDate(%q) should fail", in)
		}
	}
}

func TestNormalizeColumnName_KeepsCase(t *testing.T) {
	t.Parallel()

	if got := NormalizeColumnName("\ufeff  Custom\n labels "); got != "Custom labels" {
		t.Fatalf("got=%q, want %q", got, "Custom labels")
	}
	if got := NormalizeColumnName("title"); got != "title" {
		t.Fatalf("got=%q, want title", got)
	}
}

func TestFormatDate_DefaultLayout(t *testing.T) {
	t.Parallel()

	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d, ""); got != "05/03/2024" {
		t.Fatalf("got=%q, want 05/03/2024", got)
	}
}

func TestDisplayDate_SerialIsFormatted(t *testing.T) {
	if got := DisplayDate("45292", DefaultDateLayout); got != "01/01/2024" {
		t.Fatalf("got=%q, want 01/01/2024", got)
	}
	if got := DisplayDate("45292", "2006-01-02"); got != "2024-01-01" {
		t.Fatalf("got=%q, want 2024-01-01", got)
	}
}

func TestDisplayDate_TextIsKept(t *testing.T) {
	for _, in := range []string{"2024-03-05", "", "12", "không rõ"} {
		if got := DisplayDate(in, DefaultDateLayout); got != in {
			t.Fatalf("DisplayDate(%q) got=%q, want unchanged", in, got)
		}
	}
}
