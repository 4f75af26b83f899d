package dataset

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-erds/eeg"
	"github.com/spf13/afero"
)

// ReadMontage reads an .sfp electrode file: one "label x y z" line per
// electrode, whitespace separated. Blank lines and lines starting with '#'
// are skipped.
func ReadMontage(fs afero.Fs, path string) (*eeg.Montage, error) {
	f, err := open(fs, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := &eeg.Montage{}
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: %s:%d: want label x y z, got %d fields", ErrFormat, path, line, len(fields))
		}
		var xyz [3]float64
		for i := range xyz {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s:%d: %q", ErrFormat, path, line, fields[i+1])
			}
			xyz[i] = v
		}
		m.Positions = append(m.Positions, eeg.ElectrodePosition{
			Label: fields[0], X: xyz[0], Y: xyz[1], Z: xyz[2],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	if len(m.Positions) == 0 {
		return nil, fmt.Errorf("%w: %s: no electrodes", ErrFormat, path)
	}
	return m, nil
}
