package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestParse_MapsColumns(t *testing.T) {
	in := "Author,Rating,Text,Date,Source\n" +
		"Sarah Johnson,5,\"Amazing stay, spotless rooms\",2024-03-01,Google\n" +
		",abc,Breakfast was slow,,\n"

	res, err := Parse(strings.NewReader(in), now)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Zero(t, res.Skipped)

	first := res.Rows[0]
	assert.Equal(t, "Sarah Johnson", first.Author)
	assert.Equal(t, 5, first.Rating)
	assert.Equal(t, "Amazing stay, spotless rooms", first.Text)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first.CreatedAt)
	assert.Equal(t, "Google", first.Source)
	assert.Equal(t, "Sarah Johnson", first.Raw["author"])

	second := res.Rows[1]
	assert.Equal(t, DefaultAuthor, second.Author)
	assert.Equal(t, DefaultRating, second.Rating)
	assert.Equal(t, now, second.CreatedAt)
	assert.Equal(t, DefaultSource, second.Source)
}

func TestParse_ReviewColumnFallback(t *testing.T) {
	res, err := Parse(strings.NewReader("rating,review\n2,Room was noisy\n"), now)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Room was noisy", res.Rows[0].Text)
	assert.Equal(t, 2, res.Rows[0].Rating)
}

func TestParse_DropsRowsWithoutTextOrValidRating(t *testing.T) {
	in := "rating,text\n" +
		"4,\n" +
		"9,Out of range\n" +
		"3,Kept\n"

	res, err := Parse(strings.NewReader(in), now)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Kept", res.Rows[0].Text)
	assert.Equal(t, 2, res.Skipped)
}

func TestParse_HeaderWithBOM(t *testing.T) {
	res, err := Parse(strings.NewReader("\ufefftext,rating\nLovely pool,5\n"), now)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty_file", ""},
		{"no_text_column", "author,rating\nSam,4\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.in), now)
			assert.ErrorIs(t, err, ErrInvalidCSV)
		})
	}
}

func TestParse_RaggedRows(t *testing.T) {
	in := "author,rating,text,date\n" +
		"Ann,5,Great stay,2024-01-02\n" +
		"Bob,4,Nice pool\n" +
		"Cat,3,Fine,2024-01-03,extra\n"

	res, err := Parse(strings.NewReader(in), now)
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)

	assert.Equal(t, "Bob", res.Rows[1].Author)
	assert.Equal(t, 4, res.Rows[1].Rating)
	assert.Equal(t, "Nice pool", res.Rows[1].Text)
	assert.Equal(t, now, res.Rows[1].CreatedAt)
	assert.Equal(t, "Fine", res.Rows[2].Text)
	assert.Equal(t, 0, res.Skipped)
}

func TestParse_StrayQuotesTolerated(t *testing.T) {
	res, err := Parse(strings.NewReader("text,rating\nThe \"best\" pool,5\n"), now)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, `The "best" pool`, res.Rows[0].Text)
}

func TestParse_RatingLeadingDigits(t *testing.T) {
	cases := []struct {
		raw      string
		expected int
		skipped  bool
	}{
		{raw: "4", expected: 4},
		{raw: "4.5", expected: 4},
		{raw: "3 stars", expected: 3},
		{raw: "+2", expected: 2},
		{raw: "abc", expected: DefaultRating},
		{raw: "", expected: DefaultRating},
		{raw: "0", expected: DefaultRating},
		{raw: "-3", skipped: true},
		{raw: "7.5", skipped: true},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			in := "text,rating\nLovely pool,\"" + tc.raw + "\"\n"
			res, err := Parse(strings.NewReader(in), now)
			require.NoError(t, err)
			if tc.skipped {
				assert.Empty(t, res.Rows)
				assert.Equal(t, 1, res.Skipped)
				return
			}
			require.Len(t, res.Rows, 1)
			assert.Equal(t, tc.expected, res.Rows[0].Rating)
		})
	}
}

func TestParseDate_Layouts(t *testing.T) {
	assert.Equal(t, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), parseDate("02/05/2024", now))
	assert.Equal(t, time.Date(2024, 2, 5, 8, 30, 0, 0, time.UTC), parseDate("2024-02-05 08:30:00", now))
	assert.Equal(t, now, parseDate("last tuesday", now))
}
