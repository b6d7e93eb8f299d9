package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"revenuelens/internal/model"
	"revenuelens/internal/util"
)

const (
	SheetLabelSummary = "Tổng hợp nhãn"
	SheetVideoDetail  = "Chi tiết video"
)

// Exporter Excel导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 导出当前视图：标签汇总（含奖金）+ 视频明细（含话题）
func (e *Exporter) Export(view *model.AnalysisResult, report *model.EfficiencyReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetLabelSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetVideoDetail); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := e.writeLabelSheet(f, report, headerStyle); err != nil {
		return nil, err
	}
	if err := e.writeVideoSheet(f, view, headerStyle); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func (e *Exporter) writeLabelSheet(f *excelize.File, report *model.EfficiencyReport, headerStyle int) error {
	sheet := SheetLabelSummary
	headers := []any{
		"Nhãn", "Tổng thu nhập (USD)", "Số video", "Hiệu quả (USD/video)", "Xếp loại",
		fmt.Sprintf("Thưởng %s%% (USD)", util.FormatMoney(report.BonusPercentage, 0)),
		"Thưởng quy đổi",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	f.SetRowStyle(sheet, 1, 1, headerStyle)

	row := 2
	for _, l := range report.Labels {
		tier := l.Tier.DisplayName()
		if l.Highest {
			tier = tier + " · " + model.HighestMarker
		}
		values := []any{
			l.Label,
			util.RoundMoney(l.TotalEarning),
			l.VideoCount,
			util.RoundMoney(l.Efficiency),
			tier,
			util.RoundMoney(l.BonusAmount),
			util.RoundMoney(l.ConvertedAmount),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write label row: %w", err)
		}
		row++
	}

	var totalEarning float64
	var totalVideos int
	for _, l := range report.Labels {
		totalEarning += l.TotalEarning
		totalVideos += l.VideoCount
	}
	totals := []any{
		"Tổng cộng",
		util.RoundMoney(totalEarning),
		totalVideos,
		nil,
		nil,
		util.RoundMoney(report.TotalBonus),
		util.RoundMoney(report.TotalConverted),
	}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		return fmt.Errorf("failed to write total row: %w", err)
	}
	f.SetRowStyle(sheet, row, row, headerStyle)

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "G", 18)
	return nil
}

func (e *Exporter) writeVideoSheet(f *excelize.File, view *model.AnalysisResult, headerStyle int) error {
	sheet := SheetVideoDetail
	headers := []any{"Tiêu đề", "Nhãn", "Thu nhập (USD)", "ID tài sản video", "Ngày", "Hashtag", "Thu nhập thấp"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	f.SetRowStyle(sheet, 1, 1, headerStyle)

	for i := range view.VideoEarnings {
		v := &view.VideoEarnings[i]
		low := ""
		if v.IsLowEarning() {
			low = "Thấp"
		}
		values := []any{
			v.Title,
			v.Label,
			util.RoundMoney(v.TotalEarning),
			v.AssetID,
			v.Date,
			strings.Join(v.Hashtags, " "),
			low,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write video row: %w", err)
		}
	}

	f.SetColWidth(sheet, "A", "A", 40)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "E", 16)
	f.SetColWidth(sheet, "F", "F", 36)
	return nil
}
