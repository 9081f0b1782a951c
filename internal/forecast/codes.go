package forecast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToDisplayCode maps a WMO weather code onto the display vocabulary used by
// the daily provider, so both sources speak one code set client-side.
func ToDisplayCode(wmo int) string {
	switch {
	case wmo == 0:
		return "113" // clear sky
	case wmo >= 1 && wmo <= 3:
		return "116" // partly cloudy
	case wmo == 45 || wmo == 48:
		return "260" // fog
	case wmo >= 51 && wmo <= 55:
		return "266" // drizzle
	case wmo == 56 || wmo == 57:
		return "311" // freezing drizzle
	case wmo >= 61 && wmo <= 65:
		return "296" // rain
	case wmo == 66 || wmo == 67:
		return "314" // freezing rain
	case wmo >= 71 && wmo <= 77:
		return "329" // snow
	case wmo >= 80 && wmo <= 82:
		return "353" // rain showers
	case wmo >= 95 && wmo <= 99:
		return "389" // thunderstorm
	default:
		return "119" // cloudy
	}
}

// WeatherIcon returns the emoji for a display weather code.
func WeatherIcon(displayCode string) string {
	code, _ := strconv.Atoi(displayCode)
	switch code {
	case 113:
		return "☀️"
	case 116, 119, 122:
		return "☁️"
	case 176, 263, 266, 293, 296, 299, 302, 305, 308, 353, 356, 359:
		return "\U0001f327️"
	case 386, 389, 392, 395:
		return "⛈️"
	case 179, 182, 185, 323, 326, 329, 332, 335, 338, 368, 371:
		return "❄️"
	default:
		return "\U0001f324️"
	}
}

// codePriority ranks WMO codes by significance: severe phenomena first, clear
// sky last. The first hourly code found in this list represents the day.
var codePriority = []int{
	95, 96, 99, 71, 73, 75, 77, 85, 86, 51, 53, 55, 56, 57, 61, 63, 65, 66, 67, 80, 81, 82,
	3, 2, 1, 0,
}

// MostSignificantCode selects the day's representative WMO code. When none of
// the hourly codes is in the priority list it falls back to the code at hour
// 12, then hour 0.
func MostSignificantCode(hourlyCodes []int) int {
	for _, code := range codePriority {
		for _, h := range hourlyCodes {
			if h == code {
				return code
			}
		}
	}
	if len(hourlyCodes) > 12 {
		return hourlyCodes[12]
	}
	if len(hourlyCodes) > 0 {
		return hourlyCodes[0]
	}
	return 0
}

var compassRose = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Direction16 converts degrees to a 16-point compass direction.
func Direction16(deg float64) string {
	idx := int(math.Round(deg/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassRose[idx]
}

// SeaState returns the marine-scale acronym for a wave height (Douglas scale
// shorthand: C calm through G very high).
func SeaState(heightM *float64) string {
	if heightM == nil || math.IsNaN(*heightM) {
		return "-"
	}
	h := *heightM
	switch {
	case h < 0.1:
		return "C"
	case h < 0.5:
		return "QC"
	case h < 1.25:
		return "PM"
	case h < 2.5:
		return "M"
	case h < 4:
		return "MM"
	case h < 6:
		return "A"
	default:
		return "G"
	}
}

// FormatClock normalizes a provider time string to "HH:MM". It accepts
// 24-hour times ("18:58"), 12-hour times ("6:43 PM") and bare numeric times
// ("600" for 06:00).
func FormatClock(timeStr string) string {
	s := strings.TrimSpace(timeStr)
	if s == "" {
		return NotAvailable
	}

	if !strings.Contains(s, ":") {
		for len(s) < 4 {
			s = "0" + s
		}
		return s[:2] + ":" + s[2:4]
	}

	if strings.Contains(s, "AM") || strings.Contains(s, "PM") {
		fields := strings.Fields(s)
		hm := strings.SplitN(fields[0], ":", 2)
		hours, err := strconv.Atoi(hm[0])
		if err != nil || len(hm) != 2 {
			return NotAvailable
		}
		modifier := fields[len(fields)-1]
		if modifier == "PM" && hours != 12 {
			hours += 12
		}
		if modifier == "AM" && hours == 12 {
			hours = 0
		}
		return fmt.Sprintf("%02d:%s", hours, hm[1])
	}

	parts := strings.SplitN(s, ":", 2)
	hh, mm := parts[0], parts[1]
	if len(hh) < 2 {
		hh = "0" + hh
	}
	if len(mm) < 2 {
		mm = "0" + mm
	}
	return hh + ":" + mm
}

// ClockHour extracts the hour (0-23) from a time string in any of the
// FormatClock input formats. Unparseable input yields 0.
func ClockHour(timeStr string) int {
	normalized := FormatClock(timeStr)
	if normalized == NotAvailable {
		return 0
	}
	h, err := strconv.Atoi(strings.SplitN(normalized, ":", 2)[0])
	if err != nil || h < 0 || h > 23 {
		return 0
	}
	return h
}
