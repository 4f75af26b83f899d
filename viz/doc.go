// Package viz renders ERDS figures from time-frequency tensors.
//
// [Heatmaps] draws one figure per condition: a column of epoch-averaged
// time-frequency maps, one per channel, with points outside significant
// permutation clusters dimmed, and a shared colour bar running from ERD
// (negative) to ERS (positive). [ERDSLines] draws band-averaged power over
// time in a band x channel grid with one bootstrapped curve per condition.
//
// Figures are rendered with gonum/plot. Saving goes through an afero
// filesystem and displaying through a [Viewer], so both side effects can be
// switched independently and replaced in tests.
package viz
