// Package design computes biquad coefficients for the filters used in EEG
// preprocessing: RBJ lowpass, highpass and notch sections, and Butterworth
// cascades built from them.
//
// Invalid parameters (frequency outside (0, Nyquist), non-positive sample
// rate or order) yield zero coefficients or a nil cascade.
package design
