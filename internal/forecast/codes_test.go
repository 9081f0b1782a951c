package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDisplayCode(t *testing.T) {
	tests := []struct {
		wmo  int
		want string
	}{
		{0, "113"},
		{1, "116"},
		{3, "116"},
		{45, "260"},
		{53, "266"},
		{57, "311"},
		{63, "296"},
		{66, "314"},
		{75, "329"},
		{81, "353"},
		{95, "389"},
		{99, "389"},
		{42, "119"}, // unmapped
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToDisplayCode(tt.wmo), "wmo %d", tt.wmo)
	}
}

func TestWeatherIcon(t *testing.T) {
	assert.Equal(t, "☀️", WeatherIcon("113"))
	assert.Equal(t, "☁️", WeatherIcon("119"))
	assert.Equal(t, "⛈️", WeatherIcon("389"))
	assert.Equal(t, "❄️", WeatherIcon("329"))
}

func TestMostSignificantCode(t *testing.T) {
	// Thunderstorm at a single hour dominates the day.
	codes := make([]int, 24)
	codes[17] = 95
	assert.Equal(t, 95, MostSignificantCode(codes))

	// Snow outranks rain regardless of order.
	assert.Equal(t, 71, MostSignificantCode([]int{61, 71, 61}))

	// All-clear day resolves to clear sky via the priority list.
	clear := make([]int, 24)
	assert.Equal(t, 0, MostSignificantCode(clear))

	// Unlisted codes fall back to the hour-12 entry.
	unlisted := make([]int, 24)
	for i := range unlisted {
		unlisted[i] = 45
	}
	assert.Equal(t, 45, MostSignificantCode(unlisted))

	// Short slices fall back to the first entry.
	assert.Equal(t, 48, MostSignificantCode([]int{48}))
	assert.Equal(t, 0, MostSignificantCode(nil))
}

func TestDirection16(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{11, "N"},
		{12, "NNE"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{359, "N"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Direction16(tt.deg), "%v deg", tt.deg)
	}
}

func TestSeaState(t *testing.T) {
	assert.Equal(t, "-", SeaState(nil))
	assert.Equal(t, "C", SeaState(f64(0.05)))
	assert.Equal(t, "QC", SeaState(f64(0.3)))
	assert.Equal(t, "PM", SeaState(f64(0.8)))
	assert.Equal(t, "M", SeaState(f64(1.5)))
	assert.Equal(t, "MM", SeaState(f64(3)))
	assert.Equal(t, "A", SeaState(f64(5)))
	assert.Equal(t, "G", SeaState(f64(7)))
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"18:58", "18:58"},
		{"6:43 PM", "18:43"},
		{"6:43 AM", "06:43"},
		{"12:05 AM", "00:05"},
		{"12:05 PM", "12:05"},
		{"600", "06:00"},
		{"1430", "14:30"},
		{"9:5", "09:05"},
		{"", NotAvailable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.in), "input %q", tt.in)
	}
}

func TestClockHour(t *testing.T) {
	assert.Equal(t, 18, ClockHour("6:43 PM"))
	assert.Equal(t, 6, ClockHour("06:15"))
	assert.Equal(t, 0, ClockHour(""))
	assert.Equal(t, 14, ClockHour("1430"))
}
