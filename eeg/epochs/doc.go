// Package epochs cuts fixed-length windows out of a continuous recording
// around event markers.
//
// Extraction is lazy: [New] only validates its inputs and resolves the
// window, and epochs are sliced, detrended and checked against the
// rejection threshold when [Epochs.Each], [Epochs.Get] or [Epochs.Load]
// asks for them. [WithPreload] materialises everything up front instead.
package epochs
