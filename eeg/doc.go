// Package eeg defines the immutable records passed between the analysis
// stages: the continuous multichannel recording ([RawSignal]), the event
// markers that anchor epochs ([EventMarker]) and the electrode layout
// ([Montage]) that travels with them.
//
// Every stage in this module takes these values and returns new ones. None of
// the types in this package are mutated after construction.
package eeg
