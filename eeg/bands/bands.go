// Package bands labels frequencies with named EEG frequency bands.
//
// A [Table] is an ordered list of upper bounds. Band i covers the
// half-open interval (upper[i-1], upper[i]], the first band starting at
// Table.Lower. A frequency on a boundary belongs to the lower band.
package bands

import (
	"errors"
	"fmt"
)

// ErrTable is returned for tables whose bounds do not increase.
var ErrTable = errors.New("bands: invalid band table")

// Band is a named band with an inclusive upper bound in Hz.
type Band struct {
	Name  string
	Upper float64
}

// Table is an ordered set of contiguous bands.
type Table struct {
	Lower float64
	Bands []Band
}

// Default returns the standard EEG bands:
// delta (0, 3], theta (3, 7], alpha (7, 13], beta (13, 35], gamma (35, 140].
func Default() Table {
	return Table{
		Lower: 0,
		Bands: []Band{
			{Name: "delta", Upper: 3},
			{Name: "theta", Upper: 7},
			{Name: "alpha", Upper: 13},
			{Name: "beta", Upper: 35},
			{Name: "gamma", Upper: 140},
		},
	}
}

// Validate reports whether bounds are strictly increasing and names are
// non-empty and unique.
func (t Table) Validate() error {
	if len(t.Bands) == 0 {
		return fmt.Errorf("%w: no bands", ErrTable)
	}
	prev := t.Lower
	seen := make(map[string]struct{}, len(t.Bands))
	for i, b := range t.Bands {
		if b.Name == "" {
			return fmt.Errorf("%w: band %d has no name", ErrTable, i)
		}
		if _, dup := seen[b.Name]; dup {
			return fmt.Errorf("%w: duplicate band %q", ErrTable, b.Name)
		}
		seen[b.Name] = struct{}{}
		if !(b.Upper > prev) {
			return fmt.Errorf("%w: %q upper bound %v not above %v", ErrTable, b.Name, b.Upper, prev)
		}
		prev = b.Upper
	}
	return nil
}

// Label returns the name of the band containing freq. ok is false when
// freq lies outside (Lower, last upper].
func (t Table) Label(freq float64) (name string, ok bool) {
	if !(freq > t.Lower) {
		return "", false
	}
	for _, b := range t.Bands {
		if freq <= b.Upper {
			return b.Name, true
		}
	}
	return "", false
}

// Names returns band names in table order.
func (t Table) Names() []string {
	out := make([]string, len(t.Bands))
	for i, b := range t.Bands {
		out[i] = b.Name
	}
	return out
}

// Keep returns a table restricted to the named bands, in table order.
// Bounds of the kept bands are unchanged; frequencies of dropped bands
// no longer get a label. Unknown names are an error.
func (t Table) Keep(names ...string) (Subset, error) {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	s := Subset{table: t, keep: make(map[string]struct{}, len(names))}
	for _, b := range t.Bands {
		if _, ok := want[b.Name]; ok {
			s.keep[b.Name] = struct{}{}
			s.order = append(s.order, b.Name)
			delete(want, b.Name)
		}
	}
	for _, n := range names {
		if _, missing := want[n]; missing {
			return Subset{}, fmt.Errorf("%w: unknown band %q", ErrTable, n)
		}
	}
	return s, nil
}

// Subset is a table with a retained selection of bands.
type Subset struct {
	table Table
	keep  map[string]struct{}
	order []string
}

// Label is like [Table.Label] but reports ok == false for dropped bands.
func (s Subset) Label(freq float64) (string, bool) {
	name, ok := s.table.Label(freq)
	if !ok {
		return "", false
	}
	if _, kept := s.keep[name]; !kept {
		return "", false
	}
	return name, true
}

// Names returns the kept band names in table order.
func (s Subset) Names() []string { return append([]string(nil), s.order...) }
