package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/OpenPSG/edf"
	"github.com/cwbudde/algo-erds/eeg"
	"github.com/spf13/afero"
)

// annotationLabel marks the EDF+ annotation channel, which carries no samples.
const annotationLabel = "EDF Annotations"

// ReadRaw loads a recording. CSV files hold one channel per row and need
// sampleRate > 0; channels get synthetic names. EDF files carry their own
// labels and rate, taken from the first signal; a positive sampleRate that
// disagrees with the file is an error.
func ReadRaw(fs afero.Fs, path string, sampleRate float64) (*eeg.RawSignal, error) {
	switch ext(path) {
	case ".csv", ".txt":
		return readCSVRaw(fs, path, sampleRate)
	case ".edf":
		return readEDF(fs, path, sampleRate)
	default:
		return nil, fmt.Errorf("%w: raw signal from %q", ErrFormat, path)
	}
}

func readCSVRaw(fs afero.Fs, path string, sampleRate float64) (*eeg.RawSignal, error) {
	f, err := open(fs, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}

	data := make([][]float64, 0, len(rows))
	for i, row := range rows {
		ch := make([]float64, len(row))
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: row %d column %d: %q", ErrFormat, path, i+1, j+1, cell)
			}
			ch[j] = v
		}
		data = append(data, ch)
	}
	raw, err := eeg.NewRawSignal(data, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	return raw, nil
}

func readEDF(fs afero.Fs, path string, sampleRate float64) (*eeg.RawSignal, error) {
	f, err := open(fs, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	layout, err := readEDFLayout(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFormat, path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	rd, err := edf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFormat, path, err)
	}

	var (
		names []string
		data  [][]float64
		rate  float64
		spr   int
	)
	for i, label := range layout.labels {
		if label == annotationLabel {
			continue
		}
		if rate == 0 {
			spr = layout.samplesPerRecord[i]
			rate = float64(spr) / layout.recordSeconds
		} else if layout.samplesPerRecord[i] != spr {
			return nil, fmt.Errorf("%w: %s: signal %q has %d samples per record, want %d",
				ErrFormat, path, label, layout.samplesPerRecord[i], spr)
		}
		sr, err := rd.Signal(i)
		if err != nil {
			return nil, fmt.Errorf("dataset: %s: %w", path, err)
		}
		samples, err := readAll(sr, spr*max(layout.records, 1))
		if err != nil {
			return nil, fmt.Errorf("dataset: %s: signal %q: %w", path, label, err)
		}
		names = append(names, label)
		data = append(data, samples)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: no data signals", ErrFormat, path)
	}
	if sampleRate > 0 && math.Abs(sampleRate-rate) > 1e-9*rate {
		return nil, fmt.Errorf("%w: %s: sample rate %g Hz, configured %g Hz", ErrFormat, path, rate, sampleRate)
	}

	raw, err := eeg.NewRawSignal(data, rate, eeg.WithChannelNames(names...))
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	return raw, nil
}

func readAll(sr *edf.SignalReader, capacity int) ([]float64, error) {
	out := make([]float64, 0, capacity)
	buf := make([]float64, 4096)
	for {
		n, err := sr.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// edfLayout holds the header fields the edf reader keeps private.
type edfLayout struct {
	records          int
	recordSeconds    float64
	labels           []string
	samplesPerRecord []int
}

// readEDFLayout parses the fixed 256-byte header and the per-signal label
// and samples-per-record blocks.
func readEDFLayout(r io.Reader) (edfLayout, error) {
	fixed := make([]byte, 256)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return edfLayout{}, fmt.Errorf("header: %w", err)
	}
	field := func(b []byte) string { return strings.TrimSpace(string(b)) }

	records, err := strconv.Atoi(field(fixed[236:244]))
	if err != nil {
		return edfLayout{}, fmt.Errorf("data records: %w", err)
	}
	seconds, err := strconv.ParseFloat(field(fixed[244:252]), 64)
	if err != nil || seconds <= 0 {
		return edfLayout{}, fmt.Errorf("record duration %q", field(fixed[244:252]))
	}
	ns, err := strconv.Atoi(field(fixed[252:256]))
	if err != nil || ns <= 0 {
		return edfLayout{}, fmt.Errorf("signal count %q", field(fixed[252:256]))
	}

	// label(16) transducer(80) dimension(8) pmin pmax dmin dmax(4x8)
	// prefiltering(80) samples(8) reserved(32)
	signals := make([]byte, ns*256)
	if _, err := io.ReadFull(r, signals); err != nil {
		return edfLayout{}, fmt.Errorf("signal headers: %w", err)
	}
	l := edfLayout{
		records:          records,
		recordSeconds:    seconds,
		labels:           make([]string, ns),
		samplesPerRecord: make([]int, ns),
	}
	sprOffset := ns * (16 + 80 + 8 + 4*8 + 80)
	for i := 0; i < ns; i++ {
		l.labels[i] = field(signals[i*16 : (i+1)*16])
		b := signals[sprOffset+i*8 : sprOffset+(i+1)*8]
		n, err := strconv.Atoi(field(b))
		if err != nil || n <= 0 {
			return edfLayout{}, fmt.Errorf("samples per record of signal %d: %q", i, field(b))
		}
		l.samplesPerRecord[i] = n
	}
	return l, nil
}
