package dataset

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/cwbudde/algo-erds/eeg/tfr"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

var longFormatHeader = []string{"epoch", "channel", "freq", "time", "condition", "value"}

// ExportLongFormat writes rows as a table with one row per observation. The
// format follows the extension of path: .csv or .xlsx. Parent directories
// are created as needed.
func ExportLongFormat(fs afero.Fs, path string, rows []tfr.Row) error {
	write := writeLongCSV
	switch ext(path) {
	case ".csv":
	case ".xlsx":
		write = writeLongXLSX
	default:
		return fmt.Errorf("%w: export to %q", ErrFormat, path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("dataset: create %s: %w", dir, err)
		}
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", path, err)
	}
	if err := write(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("dataset: write %s: %w", path, err)
	}
	return f.Close()
}

func writeLongCSV(f afero.File, rows []tfr.Row) error {
	w := csv.NewWriter(f)
	if err := w.Write(longFormatHeader); err != nil {
		return err
	}
	rec := make([]string, len(longFormatHeader))
	for _, r := range rows {
		rec[0] = strconv.Itoa(r.Epoch)
		rec[1] = r.Channel
		rec[2] = strconv.FormatFloat(r.Freq, 'g', -1, 64)
		rec[3] = strconv.FormatFloat(r.Time, 'g', -1, 64)
		rec[4] = r.Condition
		rec[5] = strconv.FormatFloat(r.Value, 'g', -1, 64)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeLongXLSX(f afero.File, rows []tfr.Row) error {
	book := excelize.NewFile()
	defer book.Close()

	sw, err := book.NewStreamWriter(defaultSheetName)
	if err != nil {
		return err
	}
	header := make([]any, len(longFormatHeader))
	for i, h := range longFormatHeader {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, []any{r.Epoch, r.Channel, r.Freq, r.Time, r.Condition, r.Value}); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = book.WriteTo(f)
	return err
}
