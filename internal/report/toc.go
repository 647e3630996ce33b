package report

import (
	"fmt"

	"hscreport/pkg/contracts/domain"
)

// BuildTOC assigns final page numbers to an ordered page list and returns
// the TOC entries plus the number of TOC listing pages. Every content
// page's final number is its 1-based position in the ordered list, offset
// by one title page plus the TOC pages themselves.
func BuildTOC(pages []domain.PageDescriptor, entriesPerPage int) ([]domain.TOCEntry, int) {
	if entriesPerPage < 1 {
		entriesPerPage = 20
	}
	if len(pages) == 0 {
		return nil, 0
	}

	tocPageCount := (len(pages) + entriesPerPage - 1) / entriesPerPage

	entries := make([]domain.TOCEntry, len(pages))
	for i, page := range pages {
		entries[i] = domain.TOCEntry{
			Subject:    page.Subject,
			Year:       page.Year,
			Title:      page.Title,
			PageNumber: (i + 1) + 1 + tocPageCount,
		}
	}
	return entries, tocPageCount
}

// PaginateTOC splits entries into listing pages at the fixed density.
func PaginateTOC(entries []domain.TOCEntry, entriesPerPage int) [][]domain.TOCEntry {
	if entriesPerPage < 1 {
		entriesPerPage = 20
	}
	var pages [][]domain.TOCEntry
	for start := 0; start < len(entries); start += entriesPerPage {
		end := start + entriesPerPage
		if end > len(entries) {
			end = len(entries)
		}
		pages = append(pages, entries[start:end])
	}
	return pages
}

// TOCLines renders one listing page's entries into display lines. A
// subject/year header line precedes the first entry of each group; the
// header is suppressed when the previous entry (prev, which may sit on
// the preceding listing page) shares the same key.
func TOCLines(entries []domain.TOCEntry, prev *domain.TOCEntry) []string {
	var lines []string
	for i := range entries {
		entry := entries[i]
		if prev == nil || prev.Subject != entry.Subject || prev.Year != entry.Year {
			lines = append(lines, fmt.Sprintf("%s %s", entry.Subject, entry.Year))
		}
		lines = append(lines, fmt.Sprintf("  %s  .....  %d", entry.Title, entry.PageNumber))
		prev = &entries[i]
	}
	return lines
}
