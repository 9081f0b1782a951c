package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindBestWindow(t *testing.T) {
	scores := []HourlyScore{
		{Hour: 6, Score: 2.0},
		{Hour: 7, Score: 4.0},
		{Hour: 8, Score: 1.0},
	}

	window, ok := FindBestWindow(scores, 4, 13)
	assert.True(t, ok)
	assert.Equal(t, "06:00 - 08:00", window)
}

func TestFindBestWindowEarliestWins(t *testing.T) {
	// Two pairs with the same mean; the earlier one is reported.
	scores := []HourlyScore{
		{Hour: 5, Score: 3.0},
		{Hour: 6, Score: 3.0},
		{Hour: 7, Score: 3.0},
		{Hour: 8, Score: 3.0},
	}

	window, ok := FindBestWindow(scores, 4, 13)
	assert.True(t, ok)
	assert.Equal(t, "05:00 - 07:00", window)
}

func TestFindBestWindowFiltersRange(t *testing.T) {
	// Hours outside the range are ignored even when they score higher.
	scores := []HourlyScore{
		{Hour: 2, Score: 9.0},
		{Hour: 3, Score: 9.0},
		{Hour: 14, Score: 2.0},
		{Hour: 15, Score: 5.0},
		{Hour: 16, Score: 5.0},
	}

	window, ok := FindBestWindow(scores, 14, 22)
	assert.True(t, ok)
	assert.Equal(t, "15:00 - 17:00", window)
}

func TestFindBestWindowTooFewHours(t *testing.T) {
	_, ok := FindBestWindow([]HourlyScore{{Hour: 6, Score: 5.0}}, 4, 13)
	assert.False(t, ok)

	_, ok = FindBestWindow(nil, 4, 13)
	assert.False(t, ok)
}

func TestFindBestWindowNoConsecutivePair(t *testing.T) {
	scores := []HourlyScore{
		{Hour: 5, Score: 4.0},
		{Hour: 7, Score: 4.0},
		{Hour: 9, Score: 4.0},
	}

	_, ok := FindBestWindow(scores, 4, 13)
	assert.False(t, ok)
}

func TestFindBestWindowEndOfRange(t *testing.T) {
	scores := []HourlyScore{
		{Hour: 21, Score: 4.0},
		{Hour: 22, Score: 5.0},
	}

	window, ok := FindBestWindow(scores, 14, 22)
	assert.True(t, ok)
	assert.Equal(t, "21:00 - 23:00", window)
}
