// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Sections are cascaded via
// [Chain], which also offers zero-phase forward-backward filtering.
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design.
package biquad
