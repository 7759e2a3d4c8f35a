package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    LineRange
		wantErr bool
	}{
		{name: "start and end", input: "10,20", want: LineRange{Start: 10, End: 20}},
		{name: "start and offset", input: "10,+5", want: LineRange{Start: 10, End: 15}},
		{name: "zero offset", input: "7,+0", want: LineRange{Start: 7, End: 7}},
		{name: "single line", input: "3", want: LineRange{Start: 3, End: 3}},
		{name: "spaces", input: " 4 , 6 ", want: LineRange{Start: 4, End: 6}},
		{name: "end before start", input: "20,10", wantErr: true},
		{name: "zero start", input: "0,3", wantErr: true},
		{name: "negative offset", input: "5,+-1", wantErr: true},
		{name: "garbage", input: "a,b", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRange(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := ParseRange(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestFilterLines(t *testing.T) {
	files := Parse(multiFileDiff)

	filtered := FilterLines(files, LineRange{Start: 2, End: 4})
	require.Len(t, filtered, 2)

	main := filtered[0]
	assert.Equal(t, "cmd/main.go", main.File)
	require.Len(t, main.Hunks, 1)
	for _, line := range main.Hunks[0].Lines {
		assert.NotEqual(t, Deletion, line.Type)
		assert.True(t, line.NewNum >= 2 && line.NewNum <= 4)
	}
	assert.Equal(t, 1, main.Additions)
	assert.Equal(t, 0, main.Deletions)

	added := filtered[1]
	assert.Equal(t, "docs/new.md", added.File)
	assert.Equal(t, 2, added.Additions)

	// source model untouched
	assert.Equal(t, 2, files[0].Additions)
	assert.Len(t, files[0].Hunks, 2)
}

func TestFilterLines_NothingInRange(t *testing.T) {
	filtered := FilterLines(Parse(multiFileDiff), LineRange{Start: 500, End: 600})
	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)
}

func TestTotals(t *testing.T) {
	files := Parse(multiFileDiff)
	s := Totals(files)
	assert.Equal(t, Summary{Files: 3, Additions: 5, Deletions: 4}, s)

	var typed int
	for _, f := range files {
		for _, h := range f.Hunks {
			for _, line := range h.Lines {
				if line.Type != Context {
					typed++
				}
			}
		}
	}
	assert.Equal(t, typed, s.Additions+s.Deletions)
	assert.Equal(t, Summary{}, Totals(nil))
}
