package calculator

import (
	"testing"

	"revenuelens/internal/model"
)

func TestClassify_TiersAgainstMean(t *testing.T) {
	// 效率: 8, 4, 1, 3 -> 均值 4
	labels := []model.LabelSummary{
		{Label: "A", TotalEarning: 16, VideoCount: 2},
		{Label: "B", TotalEarning: 8, VideoCount: 2},
		{Label: "C", TotalEarning: 3, VideoCount: 3},
		{Label: "D", TotalEarning: 3, VideoCount: 1},
	}

	report := Classify(labels, BonusOptions{BonusPercentage: 10, ExchangeRate: 25000})
	if report.MeanEfficiency != 4 || report.MaxEfficiency != 8 {
		t.Fatalf("mean/max got=%v/%v, want 4/8", report.MeanEfficiency, report.MaxEfficiency)
	}

	want := map[string]model.Tier{"A": model.TierTop, "B": model.TierBaseline, "C": model.TierBaseline, "D": model.TierBaseline}
	for _, l := range report.Labels {
		if l.Tier != want[l.Label] {
			t.Fatalf("label %s tier got=%s, want %s", l.Label, l.Tier, want[l.Label])
		}
	}
	if !report.Labels[0].Highest {
		t.Fatalf("A should carry the highest marker")
	}
}

func TestClassify_MiddleTier(t *testing.T) {
	// 效率: 5, 4, 3 -> 均值 4; 5 > 4 但不超过 6
	report := Classify([]model.LabelSummary{
		{Label: "A", TotalEarning: 5, VideoCount: 1},
		{Label: "B", TotalEarning: 4, VideoCount: 1},
		{Label: "C", TotalEarning: 3, VideoCount: 1},
	}, BonusOptions{})
	if report.Labels[0].Tier != model.TierMiddle {
		t.Fatalf("tier got=%s, want middle", report.Labels[0].Tier)
	}
	if report.Labels[1].Tier != model.TierBaseline {
		t.Fatalf("equal to mean should be baseline, got=%s", report.Labels[1].Tier)
	}
}

func TestClassify_HighestMarkerFirstTieWins(t *testing.T) {
	report := Classify([]model.LabelSummary{
		{Label: "A", TotalEarning: 6, VideoCount: 3},
		{Label: "B", TotalEarning: 4, VideoCount: 1},
		{Label: "C", TotalEarning: 8, VideoCount: 2},
	}, BonusOptions{})

	marked := 0
	for _, l := range report.Labels {
		if l.Highest {
			marked++
			if l.Label != "B" {
				t.Fatalf("highest got=%s, want B", l.Label)
			}
		}
	}
	if marked != 1 {
		t.Fatalf("highest marked=%d, want 1", marked)
	}
}

func TestClassify_BonusAndConversion(t *testing.T) {
	report := Classify([]model.LabelSummary{
		{Label: "A", TotalEarning: 200, VideoCount: 4},
		{Label: "B", TotalEarning: 50, VideoCount: 1},
	}, BonusOptions{BonusPercentage: 10, ExchangeRate: 25000})

	a := report.Labels[0]
	if a.BonusAmount != 20 || a.ConvertedAmount != 500000 {
		t.Fatalf("A bonus got=%v converted=%v", a.BonusAmount, a.ConvertedAmount)
	}
	if report.TotalBonus != 25 || report.TotalConverted != 625000 {
		t.Fatalf("totals got=%v/%v", report.TotalBonus, report.TotalConverted)
	}
}

func TestClassify_NegativeParametersPropagate(t *testing.T) {
	report := Classify([]model.LabelSummary{{Label: "A", TotalEarning: 100, VideoCount: 1}},
		BonusOptions{BonusPercentage: -10, ExchangeRate: 0})
	if report.Labels[0].BonusAmount != -10 || report.Labels[0].ConvertedAmount != 0 {
		t.Fatalf("got bonus=%v converted=%v", report.Labels[0].BonusAmount, report.Labels[0].ConvertedAmount)
	}
}

func TestEfficiency_ZeroVideos(t *testing.T) {
	if got := Efficiency(10, 0); got != 0 {
		t.Fatalf("got=%v, want 0", got)
	}
}

func TestClassify_Empty(t *testing.T) {
	report := Classify(nil, BonusOptions{BonusPercentage: 10})
	if len(report.Labels) != 0 || report.MeanEfficiency != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}
