package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/yamato-research/kessan-cli/internal/metrics"
	"github.com/yamato-research/kessan-cli/internal/model"
)

// WriteWorkbook writes the full analysis as a multi-sheet Excel workbook.
func WriteWorkbook(res *model.AnalysisResult, path string) error {
	f := xlsx.NewFile()

	if err := addHealthSheet(f, res.Tables.Health); err != nil {
		return err
	}
	if err := addProfitSheet(f, res.Tables.Profitability); err != nil {
		return err
	}
	if err := addGrowthSheet(f, res.Tables.Growth); err != nil {
		return err
	}
	if err := addValueSheet(f, res.Tables.AssetValue, res.Tables.IncomeValue); err != nil {
		return err
	}
	if err := addPriceSheet(f, res.Tables.Price); err != nil {
		return err
	}

	return eris.Wrapf(f.Save(path), "report: save workbook %s", path)
}

func addHealthSheet(f *xlsx.File, rows []model.HealthRow) error {
	sheet, err := f.AddSheet("Health")
	if err != nil {
		return eris.Wrap(err, "report: add health sheet")
	}
	addHeader(sheet, "Metric", "Value", "Threshold", "Verdict")
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r.Metric
		row.AddCell().Value = metrics.FmtPct(r.Value, 1)
		row.AddCell().Value = r.Threshold
		row.AddCell().Value = r.Verdict
	}
	return nil
}

func addProfitSheet(f *xlsx.File, rows []model.ProfitRow) error {
	sheet, err := f.AddSheet("Profitability")
	if err != nil {
		return eris.Wrap(err, "report: add profitability sheet")
	}
	addHeader(sheet, "Metric", "Value", "Guideline", "Verdict")
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r.Metric
		row.AddCell().Value = metrics.FmtPct(r.Value, 1)
		row.AddCell().Value = r.Guideline
		row.AddCell().Value = r.Verdict
	}
	return nil
}

func addGrowthSheet(f *xlsx.File, rows []model.GrowthRow) error {
	sheet, err := f.AddSheet("Growth")
	if err != nil {
		return eris.Wrap(err, "report: add growth sheet")
	}
	addHeader(sheet, "Metric", "Value", "Comment")
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r.Metric
		row.AddCell().Value = r.Display
		row.AddCell().Value = r.Comment
	}
	return nil
}

func addValueSheet(f *xlsx.File, av model.AssetValue, iv model.IncomeValue) error {
	sheet, err := f.AddSheet("Valuation")
	if err != nil {
		return eris.Wrap(err, "report: add valuation sheet")
	}
	addHeader(sheet, "Estimate", "Value")
	for _, item := range []struct {
		label string
		value float64
	}{
		{"Adjusted assets", av.AdjustedAssets},
		{"Liquidation value", av.LiquidationValue},
		{"Income value weak (perpetuity)", iv.WeakSimple},
		{"Income value strong (perpetuity)", iv.StrongSimple},
		{"Income value weak (DCF)", iv.WeakDCF},
		{"Income value strong (DCF)", iv.StrongDCF},
	} {
		row := sheet.AddRow()
		row.AddCell().Value = item.label
		row.AddCell().SetFloat(item.value)
	}
	return nil
}

func addPriceSheet(f *xlsx.File, rows []model.PriceRow) error {
	sheet, err := f.AddSheet("Price")
	if err != nil {
		return eris.Wrap(err, "report: add price sheet")
	}
	addHeader(sheet, "Metric", "Value")
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r.Metric
		row.AddCell().Value = r.Display
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, cols ...string) {
	row := sheet.AddRow()
	for _, c := range cols {
		row.AddCell().Value = c
	}
}
