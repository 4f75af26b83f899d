package eeg

import (
	"fmt"
	"sort"
)

// EventMarker anchors one epoch at a sample index of the raw recording.
type EventMarker struct {
	Sample int
	Label  string
}

// EventCode pairs an event label with its integer code.
type EventCode struct {
	Label string
	Code  int
}

// CodeTable maps event labels to integer codes.
type CodeTable struct {
	Entries []EventCode // sorted by label
	byLabel map[string]int
}

// EventCodes assigns integer codes to the distinct labels in markers. Labels
// are sorted and numbered from 0, so the same label set always yields the
// same codes regardless of marker order.
func EventCodes(markers []EventMarker) (CodeTable, error) {
	seen := make(map[string]struct{}, 4)
	for i, m := range markers {
		if m.Sample < 0 {
			return CodeTable{}, fmt.Errorf("%w: marker %d at %d", ErrNegativeSample, i, m.Sample)
		}
		seen[m.Label] = struct{}{}
	}

	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	table := CodeTable{
		Entries: make([]EventCode, len(labels)),
		byLabel: make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		table.Entries[i] = EventCode{Label: l, Code: i}
		table.byLabel[l] = i
	}

	return table, nil
}

// Code returns the code for label.
func (t CodeTable) Code(label string) (int, bool) {
	c, ok := t.byLabel[label]
	return c, ok
}

// Labels returns the labels in code order.
func (t CodeTable) Labels() []string {
	out := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = e.Label
	}
	return out
}

// NewMarkers zips sample indices and labels into markers.
func NewMarkers(samples []int, labels []string) ([]EventMarker, error) {
	if len(samples) != len(labels) {
		return nil, fmt.Errorf("eeg: %d event samples for %d labels", len(samples), len(labels))
	}

	out := make([]EventMarker, len(samples))
	for i := range samples {
		if samples[i] < 0 {
			return nil, fmt.Errorf("%w: marker %d at %d", ErrNegativeSample, i, samples[i])
		}
		out[i] = EventMarker{Sample: samples[i], Label: labels[i]}
	}
	return out, nil
}

// ShiftMarkers moves every marker offset samples earlier and drops markers
// that would land before the first sample. It pairs with [RawSignal.CropTime].
func ShiftMarkers(markers []EventMarker, offset int) []EventMarker {
	out := make([]EventMarker, 0, len(markers))
	for _, m := range markers {
		if m.Sample-offset < 0 {
			continue
		}
		out = append(out, EventMarker{Sample: m.Sample - offset, Label: m.Label})
	}
	return out
}
