package viz

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-erds/eeg"
	"github.com/cwbudde/algo-erds/eeg/tfr"
	"github.com/cwbudde/algo-erds/internal/testutil"
)

var (
	testFreqs    = []float64{8, 10, 12, 14, 16, 18}
	testChannels = []string{"C3", "Cz", "C4"}
)

// erdsTensor returns alternating LEFT/RIGHT epochs of small noise with a
// -0.6 alpha desynchronisation after t = 0.
func erdsTensor(t *testing.T, epochs int) *tfr.Tensor {
	t.Helper()
	times := make([]float64, 20)
	for i := range times {
		times[i] = -1 + 0.1*float64(i)
	}
	tt := &tfr.Tensor{
		Freqs:      testFreqs,
		Times:      times,
		Channels:   testChannels,
		SampleRate: 10,
	}
	n := epochs * len(testChannels) * len(testFreqs) * len(times)
	tt.Data = testutil.DeterministicNoise(11, 0.2, n)
	for e := 0; e < epochs; e++ {
		label := "LEFT"
		if e%2 == 1 {
			label = "RIGHT"
		}
		tt.Events = append(tt.Events, eeg.EventMarker{Sample: 1000 * (e + 1), Label: label})
	}
	i := 0
	for e := 0; e < epochs; e++ {
		for range testChannels {
			for _, f := range testFreqs {
				for _, tm := range times {
					if f <= 12 && tm >= 0 {
						tt.Data[i] -= 0.6
					}
					i++
				}
			}
		}
	}
	require.Len(t, tt.Data, i)
	return tt
}

// constTensor holds value == frequency everywhere.
func constTensor(labels []string) *tfr.Tensor {
	times := []float64{-0.5, 0, 0.5}
	tt := &tfr.Tensor{Freqs: testFreqs, Times: times, Channels: testChannels, SampleRate: 2}
	for e, l := range labels {
		tt.Events = append(tt.Events, eeg.EventMarker{Sample: e, Label: l})
		for range testChannels {
			for _, f := range testFreqs {
				for range times {
					tt.Data = append(tt.Data, f)
				}
			}
		}
	}
	return tt
}

type recordingViewer struct {
	mu    sync.Mutex
	paths []string
}

func (v *recordingViewer) Show(path string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paths = append(v.paths, path)
	return nil
}
