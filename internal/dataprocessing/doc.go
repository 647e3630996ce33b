// Package dataprocessing turns raw worksheet cells into canonical exam
// item records and reconstructs the image payloads that arrive split
// across size-capped chunk columns.
//
// The worksheet format is messy by nature: the header row floats, column
// names vary between exports, and repeated header rows appear inside the
// data. Normalize is schema-tolerant on input and strict on output; every
// record that leaves this package has a non-empty subject, year and item
// label, and downstream packages never look at raw worksheet keys again.
package dataprocessing
