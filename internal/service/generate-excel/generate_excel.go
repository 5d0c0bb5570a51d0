package generate_excel

import (
	"context"
	"errors"
	"fmt"
	"github.com/xuri/excelize/v2"
	"shift-metrics/internal/storage"
)

const (
	sheetManagers = "Managers"
	sheetHourly   = "Hourly"
)

type ReportSource interface {
	GetReport(ctx context.Context, managerID int64, date string) (storage.IngestionReport, error)
	GetHourlySummary(ctx context.Context, managerID int64, date string) (storage.HourlySummary, error)
}

type GenerateExcelService struct {
	storage ReportSource
}

func NewGenerateService(storage ReportSource) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

var managerHeaders = []any{
	"Employee ID", "Manager Name", "Time Slice", "All Net Sales", "# of Shifts", "GC",
	"DT Pulled Forward %", "KVS Healthy Usage", "OEPE", "Punch Labor %", "DT GC", "TPPH",
	"Average Check", "Act vs Need", "R2P",
}

var hourlyHeaders = []any{
	"Shift Type", "Label", "Rows", "All Net Sales", "STW GC", "R2P",
	"OEPE", "KVS Time Per Item", "KVS Healthy Usage", "DT Pull Forward %", "Punch Labor", "TPPH",
}

// GenerateExcel builds a workbook with whichever of the manager report and the
// hourly summary exist for the date. storage.ErrNotFound if neither does.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, managerID int64, date string) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	report, err := g.storage.GetReport(ctx, managerID, date)
	hasReport := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary, err := g.storage.GetHourlySummary(ctx, managerID, date)
	hasSummary := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !hasReport && !hasSummary {
		return nil, fmt.Errorf("%s: manager %d date %s: %w", op, managerID, date, storage.ErrNotFound)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: style: %w", op, err)
	}

	first := true
	sheet := func(name string) (string, error) {
		if first {
			first = false
			return name, f.SetSheetName("Sheet1", name)
		}
		_, err := f.NewSheet(name)
		return name, err
	}

	if hasReport {
		name, err := sheet(sheetManagers)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := writeManagers(f, name, headerStyle, report); err != nil {
			return nil, fmt.Errorf("%s: managers sheet: %w", op, err)
		}
	}

	if hasSummary {
		name, err := sheet(sheetHourly)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := writeHourly(f, name, headerStyle, summary); err != nil {
			return nil, fmt.Errorf("%s: hourly sheet: %w", op, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

func writeManagers(f *excelize.File, sheet string, headerStyle int, report storage.IngestionReport) error {
	if err := writeHeader(f, sheet, headerStyle, managerHeaders); err != nil {
		return err
	}

	for i, e := range report.Entries {
		row := []any{
			e.EmployeeID, e.ManagerName, e.TimeSlice, e.AllNetSales, e.NumberOfShifts, e.GC,
			e.DtPulledForwardPct, e.KvsHealthyUsage, e.Oepe, e.PunchLaborPct, e.DtGC, e.Tpph,
			e.AverageCheck, e.ActVsNeed, e.R2P,
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheet, "B", "C", 22)
}

func writeHourly(f *excelize.File, sheet string, headerStyle int, summary storage.HourlySummary) error {
	if err := writeHeader(f, sheet, headerStyle, hourlyHeaders); err != nil {
		return err
	}

	for i, b := range summary.Buckets {
		row := []any{
			b.ShiftType, b.Label, b.Count, b.SumData.AllNetSales, b.SumData.StwGc, b.SumData.R2P,
			b.AvgData.Oepe, b.AvgData.KvsTimePerItem, b.AvgData.KvsHealthyUsage,
			b.AvgData.DtPullForwardPct, b.AvgData.PunchLaborPct, b.AvgData.Tpph,
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &row); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheet, "A", "B", 15)
}

func writeHeader(f *excelize.File, sheet string, style int, headers []any) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
