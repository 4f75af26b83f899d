// Package cluster implements the one-sample cluster-based permutation test
// on frequency x time data.
//
// Every observation (typically one epoch) is a freq x time grid. A
// one-sample t statistic against zero is thresholded, supra-threshold points
// are grouped into 4-connected clusters, and each cluster's summed t value
// is compared with the distribution of the largest cluster statistic under
// random sign flips of the observations.
//
// [TwoTailedMask] runs two single-tailed tests and unions their significant
// clusters, which is how the heatmap visualizer masks ERD and ERS regions.
package cluster
