package sheetdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmptyGrids(t *testing.T) {
	header, records := Decode(nil)
	assert.Empty(t, header)
	require.NotNil(t, records)
	assert.Len(t, records, 0)

	header, records = Decode([][]string{{"userId", "email"}})
	assert.Equal(t, Schema{"userId", "email"}, header)
	require.NotNil(t, records)
	assert.Len(t, records, 0)
}

func TestDecodePadsShortRowsAndIgnoresExtraCells(t *testing.T) {
	_, records := Decode([][]string{
		{"a", "b", "c"},
		{"1"},
		{"1", "2", "3", "overflow"},
	})
	require.Len(t, records, 2)
	assert.Equal(t, Record{"a": "1", "b": "", "c": ""}, records[0])
	assert.Equal(t, Record{"a": "1", "b": "2", "c": "3"}, records[1])
}

func TestEncodeForAppendUsesCanonicalOrder(t *testing.T) {
	canonical := Schema{"userId", "email", "passwordHash", "membership"}
	row := EncodeForAppend(canonical, map[string]string{
		"membership": "free",
		"userId":     "u1",
		"unknown":    "dropped",
	})
	assert.Equal(t, []string{"u1", "", "", "free"}, row)
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	header := Schema{"x", "y", "z", "w"}
	rows := [][]string{
		{},
		{"a"},
		{"a", "b"},
		{"a", "", "c"},
		{"a", "b", "c", "d"},
	}
	for _, row := range rows {
		_, records := Decode([][]string{header, row})
		require.Len(t, records, 1)

		got := EncodeForAppend(header, records[0])
		want := pad(append([]string(nil), row...), len(header))
		assert.Equal(t, want, got, "row %v", row)
	}
}

func TestRowIndex(t *testing.T) {
	for _, n := range []int{1, 5} {
		grid := [][]string{{"id"}}
		for i := 0; i < n; i++ {
			grid = append(grid, []string{string(rune('a' + i))})
		}
		_, records := Decode(grid)
		require.Len(t, records, n)

		assert.Equal(t, 2, RowIndex(0))
		assert.Equal(t, n+1, RowIndex(n-1))
		// the physical row holds the record the index points at
		assert.Equal(t, grid[RowIndex(n-1)-1][0], records[n-1]["id"])
		assert.Equal(t, grid[RowIndex(0)-1][0], records[0]["id"])
	}
}

func TestSchemaHelpers(t *testing.T) {
	s := Schema{"a", "b"}
	assert.Equal(t, 1, s.Index("b"))
	assert.Equal(t, -1, s.Index("c"))
	assert.True(t, s.Equal(Schema{"a", "b"}))
	assert.False(t, s.Equal(Schema{"b", "a"}))
	assert.False(t, s.Equal(Schema{"a"}))
}
