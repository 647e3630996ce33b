// Package analysis groups normalized item records by subject and year,
// aggregates them per content/outcome tag, orders item labels with a
// natural alphanumeric sort and selects the best and worst performing
// items of each group.
package analysis
