package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-erds/eeg"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// ReadEvents reads an event table with event_time (sample index) and
// class_name columns. CSV and plain-text tables are read as comma separated;
// .xlsx workbooks are read from their first sheet. Fractional sample indices
// are truncated.
func ReadEvents(fs afero.Fs, path string) ([]eeg.EventMarker, error) {
	f, err := open(fs, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows [][]string
	switch ext(path) {
	case ".csv", ".txt":
		r := csv.NewReader(f)
		r.TrimLeadingSpace = true
		rows, err = r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("dataset: read %s: %w", path, err)
		}
	case ".xlsx":
		rows, err = readSheet(f)
		if err != nil {
			return nil, fmt.Errorf("dataset: read %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: events from %q", ErrFormat, path)
	}

	markers, err := parseEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return markers, nil
}

func readSheet(f afero.File) ([][]string, error) {
	book, err := excelize.OpenReader(f)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrFormat)
	}
	return book.GetRows(sheets[0])
}

func parseEvents(rows [][]string) ([]eeg.EventMarker, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty event table", ErrFormat)
	}
	idx := headerIndex(rows[0])
	ti, okT := idx[EventTimeColumn]
	ci, okC := idx[ClassNameColumn]
	if !okT || !okC {
		return nil, fmt.Errorf("%w: event table needs %q and %q columns",
			ErrFormat, EventTimeColumn, ClassNameColumn)
	}

	samples := make([]int, 0, len(rows)-1)
	labels := make([]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if ti >= len(row) || ci >= len(row) {
			return nil, fmt.Errorf("%w: row %d is short", ErrFormat, i+2)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[ti]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: row %d: event_time %q", ErrFormat, i+2, row[ti])
		}
		samples = append(samples, int(v))
		labels = append(labels, strings.TrimSpace(row[ci]))
	}
	return eeg.NewMarkers(samples, labels)
}
