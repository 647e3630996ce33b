package domain

import (
	"strings"
)

// ItemKind classifies an exam item as multiple-choice or extended-response.
type ItemKind string

const (
	KindMC      ItemKind = "MC"
	KindER      ItemKind = "ER"
	KindUnknown ItemKind = ""
)

// ParseItemKind maps a raw MC/ER cell value onto an ItemKind.
// Anything other than MC or ER (case-insensitive) is KindUnknown.
func ParseItemKind(raw string) ItemKind {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "MC":
		return KindMC
	case "ER":
		return KindER
	default:
		return KindUnknown
	}
}

// ItemRecord is the canonical normalized form of one exam item observation.
// It is produced exactly once at the ingestion boundary; downstream
// components never inspect raw worksheet keys except the chunk-field
// scanner, which enumerates Extra with an explicit pattern match.
type ItemRecord struct {
	Subject string `json:"subject"`
	// Year is the canonical group key. Integer years are normalized via
	// strconv; non-numeric values are kept as trimmed text.
	Year       string   `json:"year"`
	ItemLabel  string   `json:"item_label"`
	Kind       ItemKind `json:"kind"`
	ContentTag string   `json:"content_tag"`
	OutcomeTag string   `json:"outcome_tag"`
	SchoolMean float64  `json:"school_mean"`
	StateMean  float64  `json:"state_mean"`
	MaxMark    float64  `json:"max_mark"`

	// Extra holds worksheet columns that did not map onto the canonical
	// schema, keyed by raw header name. Image chunk fields live here.
	Extra map[string]string `json:"-"`
}

// SuccessRate returns SchoolMean/MaxMark as a percentage. When MaxMark is
// zero the result is non-finite; callers must render it as non-numeric text
// rather than treat it as an error.
func (r ItemRecord) SuccessRate() float64 {
	return r.SchoolMean / r.MaxMark * 100
}

// GroupKey returns the composite (subject, year) key used for partitioning
// and for the cross-content page ordering.
func (r ItemRecord) GroupKey() string {
	return GroupKey(r.Subject, r.Year)
}

// GroupKey builds the composite (subject, year) ordering key. The NUL
// separator keeps lexicographic comparison consistent with comparing the
// parts in sequence.
func GroupKey(subject, year string) string {
	return subject + "\x00" + year
}
