package eeg

// ElectrodePosition is the 3D location of one electrode.
type ElectrodePosition struct {
	Label   string
	X, Y, Z float64
}

// Montage maps channel names to electrode positions. It is metadata only:
// no stage in this module reads the coordinates, they are handed through to
// whatever renders scalp maps downstream.
type Montage struct {
	Positions []ElectrodePosition
}

// Position returns the electrode position for label.
func (m *Montage) Position(label string) (ElectrodePosition, bool) {
	if m == nil {
		return ElectrodePosition{}, false
	}
	for _, p := range m.Positions {
		if p.Label == label {
			return p, true
		}
	}
	return ElectrodePosition{}, false
}

// Labels returns the electrode labels in file order.
func (m *Montage) Labels() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.Positions))
	for i, p := range m.Positions {
		out[i] = p.Label
	}
	return out
}
