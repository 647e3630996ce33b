package analysis

import (
	"sort"
	"strings"

	"hscreport/pkg/contracts/domain"
)

// Groups is the two-level partition of records, keyed first by subject
// then by year. Each leaf holds the unfiltered record list in original
// input order.
type Groups map[string]map[string][]domain.ItemRecord

// GroupRecords partitions records by subject and year. No reordering is
// performed; records keep their ingestion order inside each group.
func GroupRecords(records []domain.ItemRecord) Groups {
	groups := make(Groups)
	for _, rec := range records {
		byYear, ok := groups[rec.Subject]
		if !ok {
			byYear = make(map[string][]domain.ItemRecord)
			groups[rec.Subject] = byYear
		}
		byYear[rec.Year] = append(byYear[rec.Year], rec)
	}
	return groups
}

// Subjects returns the subject keys in ascending order.
func (g Groups) Subjects() []string {
	subjects := make([]string, 0, len(g))
	for s := range g {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	return subjects
}

// Years returns the year keys of one subject in ascending order, which
// matches the ascending (subject, year) composite ordering within that
// subject.
func (g Groups) Years(subject string) []string {
	byYear := g[subject]
	years := make([]string, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// TagField selects which tag a per-tag aggregation runs over.
type TagField string

const (
	TagFieldContent TagField = "content"
	TagFieldOutcome TagField = "outcome"
)

func (f TagField) of(rec domain.ItemRecord) string {
	if f == TagFieldOutcome {
		return rec.OutcomeTag
	}
	return rec.ContentTag
}

// tagBucket accumulates sums for one (subject, year, tag) group. Buckets
// are mutated while records stream through and finalized exactly once.
type tagBucket struct {
	count         int
	maxMarkSum    float64
	schoolMeanSum float64
	stateMeanSum  float64
}

// TagAggregate is a finalized per-tag aggregation row. Means are averaged
// over the contributing records, not summed.
type TagAggregate struct {
	Tag           string
	Count         int
	MaxMarkSum    float64
	SchoolMeanAvg float64
	StateMeanAvg  float64
}

// AggregateByTag folds one (subject, year) group's records into per-tag
// rows for the chosen tag field. Records whose trimmed tag is empty are
// skipped outright so a blank tag never produces a visible aggregate
// group. Output rows are natural-sorted by tag, stable on ties.
func AggregateByTag(records []domain.ItemRecord, field TagField) []TagAggregate {
	buckets := make(map[string]*tagBucket)
	var order []string

	for _, rec := range records {
		tag := strings.TrimSpace(field.of(rec))
		if tag == "" {
			continue
		}
		b, ok := buckets[tag]
		if !ok {
			b = &tagBucket{}
			buckets[tag] = b
			order = append(order, tag)
		}
		b.count++
		b.maxMarkSum += rec.MaxMark
		b.schoolMeanSum += rec.SchoolMean
		b.stateMeanSum += rec.StateMean
	}

	aggregates := make([]TagAggregate, 0, len(order))
	for _, tag := range order {
		b := buckets[tag]
		aggregates = append(aggregates, TagAggregate{
			Tag:           tag,
			Count:         b.count,
			MaxMarkSum:    b.maxMarkSum,
			SchoolMeanAvg: b.schoolMeanSum / float64(b.count),
			StateMeanAvg:  b.stateMeanSum / float64(b.count),
		})
	}

	sort.SliceStable(aggregates, func(i, j int) bool {
		return NaturalLess(aggregates[i].Tag, aggregates[j].Tag)
	})

	return aggregates
}

// FilterByTag returns the records of one group whose trimmed tag equals
// the given tag, preserving order. Used for per-tag breakdown charts.
func FilterByTag(records []domain.ItemRecord, field TagField, tag string) []domain.ItemRecord {
	var out []domain.ItemRecord
	for _, rec := range records {
		if strings.TrimSpace(field.of(rec)) == tag {
			out = append(out, rec)
		}
	}
	return out
}

// SortRecordsByLabel returns a copy of records ordered by the natural sort
// of their item labels, stable on ties.
func SortRecordsByLabel(records []domain.ItemRecord) []domain.ItemRecord {
	sorted := make([]domain.ItemRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return NaturalLess(sorted[i].ItemLabel, sorted[j].ItemLabel)
	})
	return sorted
}
