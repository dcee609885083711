package pagination

import (
	"testing"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	encoded := EncodeCursor(40, 7)

	c, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, &Cursor{Offset: 40, Version: 7}, c)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{name: "not base64", cursor: "!!!"},
		{name: "no separator", cursor: "MTA"},
		{name: "negative offset", cursor: EncodeCursor(-1, 1)},
		{name: "bad version", cursor: "MTB8eA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.cursor)
			assert.ErrorIs(t, err, domain.ErrInvalidCursor)
		})
	}
}

func TestDecodeCursor_Empty(t *testing.T) {
	c, err := DecodeCursor("")
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestPaginate_WalksPages(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	first, err := Paginate(items, 3, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, first.Items)
	assert.True(t, first.HasMore)
	assert.Equal(t, 5, first.Total)

	c, err := DecodeCursor(first.Cursor)
	require.NoError(t, err)
	second, err := Paginate(items, 3, c, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, second.Items)

	c, err = DecodeCursor(second.Cursor)
	require.NoError(t, err)
	last, err := Paginate(items, 3, c, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, last.Items)
	assert.False(t, last.HasMore)
	assert.Empty(t, last.Cursor)
}

func TestPaginate_StaleCursor(t *testing.T) {
	_, err := Paginate([]int{1, 2, 3}, 9, &Cursor{Offset: 1, Version: 8}, 10)
	assert.ErrorIs(t, err, domain.ErrStaleCursor)
}

func TestPaginate_OffsetPastEnd(t *testing.T) {
	page, err := Paginate([]int{1, 2}, 1, &Cursor{Offset: 10, Version: 1}, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 10, ClampLimit(10))
	assert.Equal(t, MaxLimit, ClampLimit(5000))
}
