package tfr

// Row is one value of a tensor in long format.
type Row struct {
	Epoch     int
	Channel   string
	Freq      float64
	Time      float64
	Condition string
	Value     float64
}

// LongFormat flattens t into one row per (epoch, channel, frequency, time),
// in tensor order.
func LongFormat(t *Tensor) []Row {
	nE, nC, nF, nT := t.Shape()
	out := make([]Row, 0, nE*nC*nF*nT)
	i := 0
	for e := 0; e < nE; e++ {
		cond := t.Events[e].Label
		for c := 0; c < nC; c++ {
			for f := 0; f < nF; f++ {
				for k := 0; k < nT; k++ {
					out = append(out, Row{
						Epoch:     e,
						Channel:   t.Channels[c],
						Freq:      t.Freqs[f],
						Time:      t.Times[k],
						Condition: cond,
						Value:     t.Data[i],
					})
					i++
				}
			}
		}
	}
	return out
}
