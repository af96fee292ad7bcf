package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WriteCSV writes a header line followed by records.
func WriteCSV(w io.Writer, headers []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// WriteXLSX writes the same table as a single-sheet workbook.
func WriteXLSX(w io.Writer, headers []string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, record := range records {
		r := i + 2
		for c, value := range record {
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ExportFile writes the table to outputPath, choosing the format by its
// extension (.csv or .xlsx).
func ExportFile(outputPath string, headers []string, records [][]string) error {
	write := WriteCSV
	switch ext := filepath.Ext(outputPath); ext {
	case ".csv":
	case ".xlsx":
		write = WriteXLSX
	default:
		return fmt.Errorf("unsupported export format %q", ext)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := write(out, headers, records); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
