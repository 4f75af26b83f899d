package epochs

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-erds/dsp/signal"
	"github.com/cwbudde/algo-erds/eeg"
	timestats "github.com/cwbudde/algo-erds/stats/time"
)

var (
	// ErrWindow reports tmin >= tmax or a window shorter than two samples.
	ErrWindow = errors.New("epochs: invalid time window")
	// ErrDropped is returned by Get for a candidate that did not survive.
	ErrDropped = errors.New("epochs: epoch dropped")
	// ErrIndex reports a candidate index outside the marker list.
	ErrIndex = errors.New("epochs: index out of range")
)

// Drop reasons recorded in the drop log.
const (
	ReasonOutOfBounds = "out of bounds"
	ReasonPeakToPeak  = "peak-to-peak"
)

// Epoch is one channels x times window around an event.
type Epoch struct {
	Index int // position of the marker in the input list
	Event eeg.EventMarker
	Code  int
	Data  [][]float64
	Times []float64
}

// Drop records why a marker produced no epoch.
type Drop struct {
	Index   int
	Event   eeg.EventMarker
	Reason  string
	Channel string // offending channel for peak-to-peak drops
}

// Source is what the TFR engine consumes: fixed axes plus a stream of
// epochs.
type Source interface {
	SampleRate() float64
	Channels() []string
	Times() []float64
	Codes() eeg.CodeTable
	Montage() *eeg.Montage
	Each(fn func(Epoch) error) error
}

// Epochs is a lazily materialised epoch collection. It is not safe for
// concurrent use.
type Epochs struct {
	raw      *eeg.RawSignal
	markers  []eeg.EventMarker
	codes    eeg.CodeTable
	cfg      Config
	startOff int // first window sample relative to the event
	times    []float64

	loaded  []Epoch
	drops   []Drop
	scanned bool
}

var _ Source = (*Epochs)(nil)

// New validates raw and markers and prepares the epoch window
// [tmin, tmax] in seconds relative to each marker, both ends inclusive.
func New(raw *eeg.RawSignal, markers []eeg.EventMarker, tmin, tmax float64, opts ...Option) (*Epochs, error) {
	if raw == nil {
		return nil, &eeg.ShapeError{Dims: 0, Reason: "nil recording"}
	}
	if err := eeg.ValidateShape(raw.Data); err != nil {
		return nil, err
	}
	if raw.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %v", eeg.ErrSampleRate, raw.SampleRate)
	}
	if !(tmin < tmax) {
		return nil, fmt.Errorf("%w: tmin %v >= tmax %v", ErrWindow, tmin, tmax)
	}

	cfg := ApplyOptions(opts...)

	if len(cfg.Picks) > 0 {
		picked, err := raw.Pick(cfg.Picks)
		if err != nil {
			return nil, fmt.Errorf("epochs: picks: %w", err)
		}
		raw = picked
	}

	codes, err := eeg.EventCodes(markers)
	if err != nil {
		return nil, err
	}
	for _, e := range codes.Entries {
		cfg.Logger.Info("event code", "label", e.Label, "code", e.Code)
	}

	first := int(math.Round(tmin * raw.SampleRate))
	last := int(math.Round(tmax * raw.SampleRate))
	if last-first < 1 {
		return nil, fmt.Errorf("%w: [%v, %v] spans fewer than two samples", ErrWindow, tmin, tmax)
	}
	times := make([]float64, last-first+1)
	for i := range times {
		times[i] = float64(first+i) / raw.SampleRate
	}

	ep := &Epochs{
		raw:      raw,
		markers:  append([]eeg.EventMarker(nil), markers...),
		codes:    codes,
		cfg:      cfg,
		startOff: first,
		times:    times,
	}

	if cfg.Preload {
		if _, err := ep.Load(); err != nil {
			return nil, err
		}
	}
	return ep, nil
}

// SampleRate returns the sample rate of the underlying recording.
func (e *Epochs) SampleRate() float64 { return e.raw.SampleRate }

// Channels returns the epoch channel names.
func (e *Epochs) Channels() []string { return append([]string(nil), e.raw.Channels...) }

// Times returns the epoch time axis in seconds.
func (e *Epochs) Times() []float64 { return append([]float64(nil), e.times...) }

// Codes returns the label to code table.
func (e *Epochs) Codes() eeg.CodeTable { return e.codes }

// Montage returns the montage of the recording, possibly nil.
func (e *Epochs) Montage() *eeg.Montage { return e.raw.Montage }

// NumCandidates returns the number of markers, i.e. the upper bound on
// the epoch count.
func (e *Epochs) NumCandidates() int { return len(e.markers) }

// Each streams surviving epochs in marker order. Lazy collections extract
// each epoch just before fn sees it and keep nothing afterwards; the drop
// log is rebuilt on every full pass. A non-nil error from fn stops the
// iteration and is returned.
func (e *Epochs) Each(fn func(Epoch) error) error {
	if e.scanned {
		for _, ep := range e.loaded {
			if err := fn(ep); err != nil {
				return err
			}
		}
		return nil
	}

	drops := make([]Drop, 0)
	for i := range e.markers {
		ep, drop, err := e.extract(i)
		if err != nil {
			return err
		}
		if drop != nil {
			drops = append(drops, *drop)
			e.cfg.Logger.Debug("epoch dropped", "index", i, "label", drop.Event.Label, "reason", drop.Reason, "channel", drop.Channel)
			continue
		}
		if err := fn(ep); err != nil {
			return err
		}
	}
	e.drops = drops
	return nil
}

// Get materialises candidate i. It returns an error wrapping ErrDropped
// when the candidate does not survive bounds or rejection checks.
func (e *Epochs) Get(i int) (Epoch, error) {
	if i < 0 || i >= len(e.markers) {
		return Epoch{}, fmt.Errorf("%w: %d of %d", ErrIndex, i, len(e.markers))
	}
	ep, drop, err := e.extract(i)
	if err != nil {
		return Epoch{}, err
	}
	if drop != nil {
		if drop.Channel != "" {
			return Epoch{}, fmt.Errorf("%w: %s %s", ErrDropped, drop.Reason, drop.Channel)
		}
		return Epoch{}, fmt.Errorf("%w: %s", ErrDropped, drop.Reason)
	}
	return ep, nil
}

// Load materialises all surviving epochs, caches them and fixes the drop
// log. Later calls return the cached slice.
func (e *Epochs) Load() ([]Epoch, error) {
	if e.scanned {
		return e.loaded, nil
	}
	out := make([]Epoch, 0, len(e.markers))
	err := e.Each(func(ep Epoch) error {
		out = append(out, ep)
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.loaded = out
	e.scanned = true
	e.cfg.Logger.Info("epochs loaded", "kept", len(out), "dropped", len(e.drops))
	return out, nil
}

// DropLog returns the drops found by the last full pass.
func (e *Epochs) DropLog() []Drop {
	return append([]Drop(nil), e.drops...)
}

func (e *Epochs) extract(i int) (Epoch, *Drop, error) {
	m := e.markers[i]
	start := m.Sample + e.startOff
	n := len(e.times)
	if start < 0 || start+n > e.raw.Samples() {
		return Epoch{}, &Drop{Index: i, Event: m, Reason: ReasonOutOfBounds}, nil
	}

	data := make([][]float64, len(e.raw.Data))
	for ch, row := range e.raw.Data {
		data[ch] = append([]float64(nil), row[start:start+n]...)
	}
	if err := signal.DetrendBlock(data, e.cfg.Detrend); err != nil {
		return Epoch{}, nil, fmt.Errorf("epochs: detrend epoch %d: %w", i, err)
	}

	if e.cfg.Reject > 0 {
		ch, ptp := timestats.MaxPeakToPeak(data)
		if ptp > e.cfg.Reject {
			return Epoch{}, &Drop{Index: i, Event: m, Reason: ReasonPeakToPeak, Channel: e.raw.Channels[ch]}, nil
		}
	}

	code, _ := e.codes.Code(m.Label)
	return Epoch{
		Index: i,
		Event: m,
		Code:  code,
		Data:  data,
		Times: e.times,
	}, nil, nil
}
