package pagex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounds(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		offset int
		limit  int
		lo     int
		hi     int
	}{
		{"full range with zero limit", 10, 0, 0, 0, 10},
		{"middle page", 45, 15, 15, 15, 30},
		{"last partial page", 45, 30, 20, 30, 45},
		{"offset beyond end", 5, 10, 3, 5, 5},
		{"negative offset clipped", 5, -3, 2, 0, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lo, hi := Bounds(tc.n, tc.offset, tc.limit)
			assert.Equal(t, tc.lo, lo)
			assert.Equal(t, tc.hi, hi)
		})
	}
}

func TestWindow_LastPage(t *testing.T) {
	d := Window(45, 15, 3, 1)

	assert.Equal(t, 45, d.Total)
	assert.Equal(t, 3, d.CurrentPage)
	assert.Equal(t, 3, d.LastPage)

	require.NotNil(t, d.PrevPage)
	assert.Equal(t, 2, *d.PrevPage)
	assert.Nil(t, d.NextPage)

	assert.Equal(t, 1, d.FirstAdjacentPage)
	assert.Equal(t, 3, d.LastAdjacentPage)
}

func TestWindow_FirstPage(t *testing.T) {
	d := Window(100, 10, 1, 1)

	assert.Nil(t, d.PrevPage)
	require.NotNil(t, d.NextPage)
	assert.Equal(t, 2, *d.NextPage)

	assert.Equal(t, 1, d.FirstAdjacentPage)
	assert.Equal(t, 3, d.LastAdjacentPage)
}

func TestWindow_MiddlePage(t *testing.T) {
	d := Window(100, 10, 5, 1)

	assert.Equal(t, 10, d.LastPage)
	assert.Equal(t, 4, d.FirstAdjacentPage)
	assert.Equal(t, 6, d.LastAdjacentPage)
}

func TestWindow_NearEnd(t *testing.T) {
	d := Window(100, 10, 10, 1)

	assert.Nil(t, d.NextPage)
	assert.Equal(t, 8, d.FirstAdjacentPage)
	assert.Equal(t, 10, d.LastAdjacentPage)
}

func TestWindow_EmptyListing(t *testing.T) {
	d := Window(0, 15, 1, 1)

	assert.Equal(t, 0, d.LastPage)
	assert.Nil(t, d.PrevPage)
	assert.Nil(t, d.NextPage)
}
