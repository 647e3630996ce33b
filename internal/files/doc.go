// Package files locates input workbooks and generated report documents
// on disk.
package files
