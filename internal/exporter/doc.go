// Package exporter writes the CSV side products of a report run: tag
// aggregate tables and outlier selections per subject.
package exporter
