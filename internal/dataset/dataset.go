// Package dataset loads recordings, event tables and electrode montages and
// exports long-format TFR tables. Every file is resolved through an
// afero.Fs so callers and tests can swap the real disk for memory.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrResourceNotFound reports a missing input file.
	ErrResourceNotFound = errors.New("dataset: resource not found")
	// ErrFormat reports a file whose content or extension cannot be read.
	ErrFormat = errors.New("dataset: unsupported or malformed file")
)

// Column names of event tables.
const (
	EventTimeColumn  = "event_time"
	ClassNameColumn  = "class_name"
	defaultSheetName = "Sheet1"
)

// open returns the named file or ErrResourceNotFound wrapped with its name.
func open(fs afero.Fs, path string) (afero.File, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("dataset: stat %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, path)
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	return f, nil
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// headerIndex maps trimmed header names to their column.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}
