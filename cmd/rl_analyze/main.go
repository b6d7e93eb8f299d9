package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"revenuelens/internal/config"
	"revenuelens/internal/importer"
	"revenuelens/internal/model"
	"revenuelens/internal/service/calculator"
	"revenuelens/internal/service/excel"
	"revenuelens/internal/service/filter"
	"revenuelens/internal/util"
)

var (
	inPath        = flag.String("in", "", "导出文件 (.xlsx/.csv)")
	_             = flag.Float64("bonus", 0, "奖金百分比 (未指定时取配置；可为负数或 0)")
	_             = flag.Float64("rate", 0, "汇率 (未指定时取配置；可为负数或 0)")
	labels        = flag.String("labels", "", "只保留这些标签，逗号分隔")
	hashtags      = flag.String("hashtags", "", "话题筛选，逗号分隔，任一命中")
	hideLowVideos = flag.Bool("hide-low-videos", false, "隐藏低收益视频")
	hideLowLabels = flag.Bool("hide-low-labels", false, "隐藏低收益标签")
	outPath       = flag.String("out", "", "导出 .xlsx 路径")
	asJSON        = flag.Bool("json", false, "输出 JSON")
	logLevel      = flag.String("log", "warn", "日志级别")
)

type output struct {
	Result     *model.FilteredResult   `json:"result"`
	Efficiency *model.EfficiencyReport `json:"efficiency"`
	Report     *importer.Report        `json:"report"`
}

func main() {
	flag.Parse()
	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: rl_analyze -in export.csv [-bonus 10] [-rate 25000] [-labels a,b] [-hashtags #x] [-out report.xlsx] [-json]")
		os.Exit(2)
	}

	cfg, _, err := config.LoadConfigWithInfo()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	logger, err := util.NewLogger(*logLevel, "")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	f, err := os.Open(*inPath)
	if err != nil {
		log.Fatalf("open %s: %v", *inPath, err)
	}
	defer f.Close()

	coord := importer.NewCoordinator(importer.Options{DateLayout: cfg.Business.DateLayout}, logger)
	base, report, err := coord.Ingest(context.Background(), importer.IngestOptions{
		FileName: filepath.Base(*inPath),
		Reader:   f,
	})
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}

	state := model.DefaultFilterState(base)
	if *labels != "" {
		state.SelectedLabels = splitList(*labels)
	}
	if *hashtags != "" {
		state.SelectedHashtags = splitList(*hashtags)
	}
	state.HideLowEarningVideos = *hideLowVideos
	state.HideLowEarningLabels = *hideLowLabels

	opts := bonusOptions(flag.CommandLine, calculator.BonusOptions{
		BonusPercentage: cfg.Business.BonusPercentage,
		ExchangeRate:    cfg.Business.ExchangeRate,
	})

	view := filter.Apply(base, state)
	eff := calculator.Classify(view.LabelSummaries, opts)

	if *outPath != "" {
		if err := writeExport(*outPath, view, eff); err != nil {
			log.Fatalf("export: %v", err)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output{Result: view, Efficiency: eff, Report: report}); err != nil {
			log.Fatalf("encode: %v", err)
		}
		return
	}
	printSummary(os.Stdout, view, eff, report)
	if *outPath != "" {
		fmt.Printf("\nĐã xuất: %s\n", *outPath)
	}
}

// bonusOptions 只有显式传入的 -bonus / -rate 覆盖配置值，不做符号检查
func bonusOptions(fs *flag.FlagSet, defaults calculator.BonusOptions) calculator.BonusOptions {
	opts := defaults
	fs.Visit(func(f *flag.Flag) {
		getter, ok := f.Value.(flag.Getter)
		if !ok {
			return
		}
		v, ok := getter.Get().(float64)
		if !ok {
			return
		}
		switch f.Name {
		case "bonus":
			opts.BonusPercentage = v
		case "rate":
			opts.ExchangeRate = v
		}
	})
	return opts
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeExport(path string, view *model.FilteredResult, eff *model.EfficiencyReport) error {
	file, err := excel.NewExporter().Export(&view.AnalysisResult, eff)
	if err != nil {
		return err
	}
	defer file.Close()
	return file.SaveAs(path)
}

func printSummary(w io.Writer, view *model.FilteredResult, eff *model.EfficiencyReport, report *importer.Report) {
	fmt.Fprintf(w, "Tệp: %s\n", view.FileName)
	if view.HasDateRange() {
		fmt.Fprintf(w, "Khoảng thời gian: %s - %s\n", view.StartDate, view.EndDate)
	}
	fmt.Fprintf(w, "Dòng: %d (bỏ qua %d)  Video: %d  Thu nhập thấp: %d\n",
		report.Stats.Rows, report.Stats.DroppedRows, len(view.VideoEarnings), view.LowEarningCount)
	if len(view.MissingColumns) > 0 {
		fmt.Fprintf(w, "Cảnh báo thiếu cột: %s\n", strings.Join(view.MissingColumns, "; "))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Nhãn\tThu nhập\tVideo\tHiệu quả\tXếp loại\tThưởng\tQuy đổi\t")
	for _, l := range eff.Labels {
		tier := l.Tier.DisplayName()
		if l.Highest {
			tier += " · " + model.HighestMarker
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t\n",
			l.Label,
			util.FormatMoney(l.TotalEarning, 2),
			l.VideoCount,
			util.FormatMoney(l.Efficiency, 2),
			tier,
			util.FormatMoney(l.BonusAmount, 2),
			util.FormatMoney(l.ConvertedAmount, 0),
		)
	}
	fmt.Fprintf(tw, "Tổng cộng\t%s\t%d\t\t\t%s\t%s\t\n",
		util.FormatMoney(view.GrandTotal, 2),
		len(view.VideoEarnings),
		util.FormatMoney(eff.TotalBonus, 2),
		util.FormatMoney(eff.TotalConverted, 0),
	)
	_ = tw.Flush()
}
