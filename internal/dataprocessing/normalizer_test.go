package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hscreport/internal/errors"
	"hscreport/pkg/contracts/domain"
)

func itemHeader() []string {
	return []string{
		"Subject", "Year", "Question (Item)", "MC/ER",
		"Question Per Content (QPC)", "Question Per Outcome (QPO)",
		"School Mean (Item)", "State Mean (Item)", "Max Mark (Item)",
	}
}

func TestFindHeaderRow(t *testing.T) {
	tests := []struct {
		name        string
		rows        [][]string
		wantRow     int
		wantMatched bool
	}{
		{
			name:        "header at row 0",
			rows:        [][]string{itemHeader()},
			wantRow:     0,
			wantMatched: true,
		},
		{
			name: "header below title rows",
			rows: [][]string{
				{"HSC Item Analysis Export"},
				{},
				{"generated 2024-01-10"},
				itemHeader(),
			},
			wantRow:     3,
			wantMatched: true,
		},
		{
			name: "no qualifying row falls back to 0",
			rows: [][]string{
				{"Course", "Cohort", "Item"},
				{"Biology", "2023", "1"},
			},
			wantRow:     0,
			wantMatched: false,
		},
		{
			name: "token Subject alone does not qualify",
			rows: [][]string{
				{"Subject", "Teacher", "Class"},
				itemHeader(),
			},
			wantRow:     1,
			wantMatched: true,
		},
		{
			name: "header beyond scan depth is not found",
			rows: append(make([][]string, 20), itemHeader()),
			// rows 0..19 are nil, header sits at row 20
			wantRow:     0,
			wantMatched: false,
		},
		{
			name: "oversized cell is ignored during the scan",
			rows: [][]string{
				{strings.Repeat("x", 1500) + "Subject Question (Item)", "other"},
				itemHeader(),
			},
			wantRow:     1,
			wantMatched: true,
		},
		{
			name: "header tokens beyond column 12 are not seen",
			rows: [][]string{
				{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "Subject", "Question (Item)"},
				itemHeader(),
			},
			wantRow:     1,
			wantMatched: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, matched := FindHeaderRow(tt.rows)
			assert.Equal(t, tt.wantRow, row)
			assert.Equal(t, tt.wantMatched, matched)
		})
	}
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Subject", ColSubject},
		{"  Year ", ColYear},
		{"Question (Item)", ColItemLabel},
		{"Question (Item) Number", ColItemLabel},
		{"MC/ER", ColKind},
		{"Question Per Content (QPC)", ColContentTag},
		{"Content Area", ColContentTag},
		{"QPC", ColContentTag},
		{"Question Per Outcome (QPO)", ColOutcomeTag},
		{"Learning Outcome", ColOutcomeTag},
		{"QPO", ColOutcomeTag},
		{"School Mean (Item)", ColSchoolMean},
		{"State Mean (Item)", ColStateMean},
		{"Max Mark (Item)", ColMaxMark},
		{"Image Data 1", ""},
		{"Teacher", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalName(tt.raw))
		})
	}
}

func TestCanonicalizeHeaders_DuplicateFirstWins(t *testing.T) {
	header := []string{"Content Area", "Subject", "QPC", "Year"}
	columns := canonicalizeHeaders(header)

	// both col 0 and col 2 canonicalize to ContentTag; the leftmost wins
	assert.Equal(t, 0, columns[ColContentTag])
	assert.Equal(t, 1, columns[ColSubject])
	assert.Equal(t, 3, columns[ColYear])
}

func TestNormalizer_Normalize(t *testing.T) {
	ctx := context.Background()
	n := NewNormalizer(slog.Default())

	rows := [][]string{
		{"export header noise"},
		itemHeader(),
		{"Biology", "2023", "1", "MC", "Cells", "BIO12-1", "0.65", "0.71", "1"},
		{"Biology", "2023", "12b", "ER", "Genetics", "BIO12-5", "2.4", "2.1", "4"},
		// repeated header row embedded in the data
		{"Subject", "Year", "Question (Item)", "MC/ER", "", "", "", "", ""},
		// missing subject
		{"", "2023", "13", "ER", "Genetics", "BIO12-5", "1.0", "1.2", "3"},
		// non-numeric year survives as text
		{"Biology", "2023 Pilot", "14", "ER", "Ecology", "BIO12-7", "3,000.5", "2.9", "5"},
		// unparseable numerics default to zero
		{"Chemistry", "2023", "2", "MC", "Acids", "CHE12-2", "n/a", "", "x"},
		{},
	}

	result, err := n.Normalize(ctx, rows)
	require.NoError(t, err)

	require.Len(t, result.Records, 4)
	assert.Equal(t, 2, result.Rejected)
	assert.Equal(t, 1, result.HeaderRow)

	first := result.Records[0]
	assert.Equal(t, "Biology", first.Subject)
	assert.Equal(t, "2023", first.Year)
	assert.Equal(t, "1", first.ItemLabel)
	assert.Equal(t, domain.KindMC, first.Kind)
	assert.Equal(t, "Cells", first.ContentTag)
	assert.Equal(t, "BIO12-1", first.OutcomeTag)
	assert.InDelta(t, 0.65, first.SchoolMean, 1e-9)
	assert.InDelta(t, 0.71, first.StateMean, 1e-9)
	assert.InDelta(t, 1.0, first.MaxMark, 1e-9)

	// input order preserved
	assert.Equal(t, "12b", result.Records[1].ItemLabel)

	pilot := result.Records[2]
	assert.Equal(t, "2023 Pilot", pilot.Year)
	assert.InDelta(t, 3000.5, pilot.SchoolMean, 1e-9)

	chem := result.Records[3]
	assert.Zero(t, chem.SchoolMean)
	assert.Zero(t, chem.StateMean)
	assert.Zero(t, chem.MaxMark)
	assert.Equal(t, domain.KindMC, chem.Kind)
}

func TestNormalizer_Normalize_ExtraColumns(t *testing.T) {
	ctx := context.Background()
	n := NewNormalizer(nil)

	header := append(itemHeader(), "Image Data 0", "Image Data 1", "Notes")
	rows := [][]string{
		header,
		{"Biology", "2023", "1", "MC", "Cells", "BIO12-1", "0.5", "0.6", "1", "aGVsbG8", "d29ybGQ", "check later"},
	}

	result, err := n.Normalize(ctx, rows)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	extra := result.Records[0].Extra
	assert.Equal(t, "aGVsbG8", extra["Image Data 0"])
	assert.Equal(t, "d29ybGQ", extra["Image Data 1"])
	assert.Equal(t, "check later", extra["Notes"])
	// canonical columns never leak into Extra
	assert.NotContains(t, extra, "Subject")
}

func TestNormalizer_Normalize_YearCanonicalized(t *testing.T) {
	ctx := context.Background()
	n := NewNormalizer(nil)

	rows := [][]string{
		itemHeader(),
		{"Biology", " 2023 ", "1", "MC", "", "", "1", "1", "1"},
		{"Biology", "02023", "2", "MC", "", "", "1", "1", "1"},
	}

	result, err := n.Normalize(ctx, rows)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	// both normalize onto the same group key
	assert.Equal(t, "2023", result.Records[0].Year)
	assert.Equal(t, "2023", result.Records[1].Year)
}

func TestNormalizer_Normalize_NoUsableSchema(t *testing.T) {
	ctx := context.Background()
	n := NewNormalizer(nil)

	rows := [][]string{
		{"Course", "Cohort"},
		{"Biology", "2023"},
	}

	_, err := n.Normalize(ctx, rows)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}

func TestNormalizer_Normalize_Empty(t *testing.T) {
	n := NewNormalizer(nil)
	_, err := n.Normalize(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}
