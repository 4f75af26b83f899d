// Package resample converts whole recordings between sample rates with a
// rational polyphase FIR.
//
// The anti-aliasing filter is a Kaiser-windowed sinc of odd length whose
// group delay is removed, so output sample k lies at time k/outRate just
// as input sample i lies at i/inRate. Event markers therefore map by the
// rate ratio alone. Both ends are zero padded.
//
// Common workflows:
//   - New(up, down, opts...) then Apply or ApplyRows
//   - NewForRates(inRate, outRate, opts...)
//   - Resample(input, up, down, opts...)
package resample
