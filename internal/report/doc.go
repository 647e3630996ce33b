// Package report plans and assembles the per-subject report bundles: it
// converts aggregation and outlier results into ordered page descriptors,
// assigns table-of-contents page numbers and drives the external chart
// and document renderers one subject at a time.
package report
