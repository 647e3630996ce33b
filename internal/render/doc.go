// Package render holds the concrete output backends of the pipeline: a
// go-chart based PNG chart renderer and a gofpdf based document
// composer. The core pipeline only sees these through the interfaces in
// internal/report.
package render
