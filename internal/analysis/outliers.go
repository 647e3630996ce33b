package analysis

import (
	"sort"

	"hscreport/pkg/contracts/domain"
)

// Outliers holds the best and worst performing records of one
// (subject, year) group. Top and Bottom may overlap when the group has
// 2n or fewer records; that is accepted behavior, not deduplicated.
type Outliers struct {
	Top    []domain.ItemRecord
	Bottom []domain.ItemRecord
}

// SelectOutliers ranks a group's records descending by raw SchoolMean and
// takes the first n as Top and the last n, reversed, as Bottom. Groups
// smaller than n yield correspondingly shorter lists; an empty group
// yields empty lists.
//
// Ranking deliberately uses SchoolMean rather than the success rate: with
// non-uniform max marks the two orderings differ, but the rate-based
// intent of the upstream data is ambiguous, so the mean-based ranking is
// kept as is.
func SelectOutliers(records []domain.ItemRecord, n int) Outliers {
	if len(records) == 0 || n <= 0 {
		return Outliers{}
	}

	ranked := make([]domain.ItemRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SchoolMean > ranked[j].SchoolMean
	})

	count := n
	if count > len(ranked) {
		count = len(ranked)
	}

	top := make([]domain.ItemRecord, count)
	copy(top, ranked[:count])

	bottom := make([]domain.ItemRecord, count)
	for i := 0; i < count; i++ {
		bottom[i] = ranked[len(ranked)-1-i]
	}

	return Outliers{Top: top, Bottom: bottom}
}
