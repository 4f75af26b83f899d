// Package tfr computes per-epoch time-frequency power of EEG epochs.
//
// Power is estimated by convolving every epoch channel with a bank of
// complex wavelets, one per frequency of a [FrequencyGrid] and, for the
// multitaper method, one per DPSS taper. Tapers are averaged; epochs are
// not. The result is a dense [Tensor] indexed by (epoch, channel,
// frequency, time) that can be cropped and rescaled against a baseline.
package tfr
