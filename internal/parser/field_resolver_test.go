package parser

import (
	"reflect"
	"testing"

	"revenuelens/internal/model"
)

func TestResolve_SumsBothEarningColumns(t *testing.T) {
	t.Parallel()

	r := NewFieldResolver(nil)
	row := r.Resolve(model.RawRow{
		"Title":                    "Video A",
		"Thu nhập ước tính (USD)":  "1,500",
		"Estimated earnings (USD)": 2.0,
	})
	if row.Earning != 1502 {
		t.Fatalf("earning got=%v, want 1502", row.Earning)
	}
}

func TestResolve_LabelFallback(t *testing.T) {
	t.Parallel()

	r := NewFieldResolver(nil)
	row := r.Resolve(model.RawRow{"Title": "Video A", "Custom labels": "   "})
	if row.Label != model.NoLabel {
		t.Fatalf("label got=%q, want %q", row.Label, model.NoLabel)
	}

	row = r.Resolve(model.RawRow{"Tiêu đề": "Video B", "Nhãn tùy chỉnh": " Music "})
	if row.Title != "Video B" || row.Label != "Music" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestResolve_FirstNonEmptyAliasWins(t *testing.T) {
	t.Parallel()

	r := NewFieldResolver(nil)
	row := r.Resolve(model.RawRow{
		"Post ID":          "",
		"Video asset ID":   "asset-1",
		"ID tài sản video": "asset-2",
		"Ngày":             "2024-03-05",
		"Mô tả":            "hello #Cat",
	})
	if row.AssetID != "asset-1" {
		t.Fatalf("assetId got=%q, want asset-1", row.AssetID)
	}
	if row.DateText != "2024-03-05" {
		t.Fatalf("date got=%q", row.DateText)
	}
	if !reflect.DeepEqual(row.Hashtags, []string{"#cat"}) {
		t.Fatalf("hashtags got=%v", row.Hashtags)
	}
	if row.HasTitle() {
		t.Fatalf("expected row without title")
	}
}

func TestResolve_AliasCaseSensitive(t *testing.T) {
	t.Parallel()

	r := NewFieldResolver(nil)
	row := r.Resolve(model.RawRow{"title": "lower"})
	if row.Title != "" {
		t.Fatalf("title got=%q, want empty", row.Title)
	}
}

func TestInspectHeaders_MissingIdentifierFamily(t *testing.T) {
	t.Parallel()

	r := NewFieldResolver(nil)
	report := r.InspectHeaders([]string{"Title", "Custom labels", "Description", "Estimated earnings (USD)"})
	if !report.HasMissing() {
		t.Fatalf("expected missing identifier family")
	}
	if !report.Missing(FieldAssetID) || report.Missing(FieldDescription) {
		t.Fatalf("unexpected missing fields: %v", report.MissingFields)
	}
	want := []string{"Post ID / Video asset ID / ID tài sản video"}
	if !reflect.DeepEqual(report.MissingColumns, want) {
		t.Fatalf("missing columns got=%v, want %v", report.MissingColumns, want)
	}
}

func TestInspectHeaders_AllPresent(t *testing.T) {
	t.Parallel()

	r := NewFieldResolver(nil)
	report := r.InspectHeaders([]string{"Tiêu đề", "ID tài sản video", " Mô tả "})
	if report.HasMissing() {
		t.Fatalf("unexpected missing: %v", report.MissingColumns)
	}
}
