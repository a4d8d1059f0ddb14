// Package report renders the completion history as PDF or XLSX documents.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"timerdeck/internal/core/model"
)

const timeLayout = "2006-01-02 15:04:05"

// Formats accepted by Build.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// NameTotal counts completions of one timer name.
type NameTotal struct {
	Name  string
	Count int
	Last  time.Time
}

// Summarize groups history by timer name, most frequent first.
func Summarize(history []model.CompletedTimerRecord) []NameTotal {
	index := make(map[string]int)
	var totals []NameTotal
	for _, record := range history {
		position, ok := index[record.Name]
		if !ok {
			position = len(totals)
			index[record.Name] = position
			totals = append(totals, NameTotal{Name: record.Name})
		}
		totals[position].Count++
		if record.CompletionTime.After(totals[position].Last) {
			totals[position].Last = record.CompletionTime
		}
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Count > totals[j].Count
	})
	return totals
}

// Build renders history in format.
func Build(format string, history []model.CompletedTimerRecord, generatedAt time.Time) ([]byte, error) {
	switch format {
	case FormatPDF:
		return BuildHistoryPDF(history, generatedAt)
	case FormatXLSX:
		return BuildHistoryXLSX(history, generatedAt)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// BuildHistoryPDF renders a minimal PDF listing every completion.
func BuildHistoryPDF(history []model.CompletedTimerRecord, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Completed Timers")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Completions: %d", len(history)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(15, 6, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(95, 6, "Timer", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, "Completed", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for i, record := range history {
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", i+1), "1", 0, "R", false, 0, "")
		pdf.CellFormat(95, 6, record.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, record.CompletionTime.Format(timeLayout), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render history pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildHistoryXLSX renders a workbook with a history sheet and a per-name summary.
func BuildHistoryXLSX(history []model.CompletedTimerRecord, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	historySheet := "history"
	summarySheet := "summary"
	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	_ = f.SetCellValue(historySheet, "A1", "Timer")
	_ = f.SetCellValue(historySheet, "B1", "Completed")
	for i, record := range history {
		row := i + 2
		_ = f.SetCellValue(historySheet, fmt.Sprintf("A%d", row), record.Name)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("B%d", row), record.CompletionTime.Format(timeLayout))
	}

	_ = f.SetCellValue(summarySheet, "A1", "Generated")
	_ = f.SetCellValue(summarySheet, "B1", generatedAt.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A3", "Timer")
	_ = f.SetCellValue(summarySheet, "B3", "Completions")
	_ = f.SetCellValue(summarySheet, "C3", "Last completed")
	for i, total := range Summarize(history) {
		row := i + 4
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), total.Name)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), total.Count)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), total.Last.Format(timeLayout))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render history xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
