// Package preprocess cleans raw EEG before epoching.
//
// [Filter] is a zero-phase Butterworth bandpass with an optional line-noise
// notch. [ICA] is a FastICA decomposition used to remove artifact
// components such as blinks. Both preserve the channels x samples shape.
// [Resample] changes the sample rate and moves event markers with it.
package preprocess
