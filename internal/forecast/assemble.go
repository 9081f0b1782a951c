package forecast

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrAssemblyFailed is returned when the mandatory providers together yield
// no usable days.
var ErrAssemblyFailed = errors.New("forecast assembly produced no usable days")

const hoursPerDay = 24

// Assembler fuses normalized provider outputs into client-facing daily
// forecasts. It is a pure transformation apart from the injected clock, which
// drives the live-hour selection rule for the first day.
type Assembler struct {
	now func() time.Time
}

func NewAssembler() *Assembler {
	return &Assembler{now: time.Now}
}

// NewAssemblerAt returns an Assembler with a fixed clock, for tests.
func NewAssemblerAt(now func() time.Time) *Assembler {
	return &Assembler{now: now}
}

// Assemble merges the daily tidal data, the hourly atmospheric/marine data
// and the optional current data into one DailyForecast per usable day. A day
// without a full 24-hour join is dropped; an empty result is ErrAssemblyFailed.
func (a *Assembler) Assemble(
	daily []ProviderDay,
	hourly map[string][]ProviderHour,
	currents map[string][]CurrentHour,
	locationName string,
) ([]DailyForecast, error) {
	var (
		out          []DailyForecast
		prevPressure *float64
	)

	for dayIdx, day := range daily {
		hours := hourly[day.Date]
		if len(hours) < hoursPerDay {
			continue
		}
		hours = hours[:hoursPerDay]

		dailyPressure := meanBy(hours, func(h ProviderHour) float64 { return h.Pressure })
		trend := pressureTrend(dailyPressure, prevPressure)

		moonPhase := day.Astronomy.MoonPhase
		lowerPhase := strings.ToLower(moonPhase)
		isNewOrFull := strings.Contains(lowerPhase, "new moon") || strings.Contains(lowerPhase, "full moon")

		// Score each hour, joining the premium current reading by zero-padded
		// hour string. The sentinel CurrentHour keeps downstream shape uniform
		// when the premium provider is absent or had a gap.
		hourScores := make([]HourScore, 0, hoursPerDay)
		pairs := make([]HourlyScore, 0, hoursPerDay)
		hourCurrents := make([]CurrentHour, 0, hoursPerDay)
		for _, h := range hours {
			hour := ClockHour(h.Time)
			cur := lookupCurrent(currents, day.Date, hour)
			hourCurrents = append(hourCurrents, cur)

			res := CalculateHourlyScore(ScoreInput{
				PressureHpa:     h.Pressure,
				PressureTrend:   trend,
				WindSpeedKph:    h.WindSpeedKph,
				IsNewOrFullMoon: isNewOrFull,
				CloudCoverPct:   h.CloudCover,
				WaveHeightM:     h.WaveHeightM,
				WaterTempC:      h.WaterTempC,
				CurrentSpeedKn:  cur.SpeedKn,
			})
			hourScores = append(hourScores, HourScore{
				Time:    fmt.Sprintf("%02d:00", hour),
				Score:   res.NumericScore,
				Reasons: res.Reasons,
			})
			pairs = append(pairs, HourlyScore{Hour: hour, Score: res.NumericScore})
		}

		avgScore := 0.0
		for _, s := range pairs {
			avgScore += s.Score
		}
		avgScore /= float64(len(pairs))

		codes := make([]int, len(hours))
		for i, h := range hours {
			codes[i] = h.WeatherCode
		}
		dailyCode := ToDisplayCode(MostSignificantCode(codes))

		// Representative-hour selection rule: the 14:00 record stands in for
		// wind-direction display, falling back to the 13th record.
		repWind := findHour(hours, "14:")
		sunriseHour := ClockHour(day.Astronomy.Sunrise)
		sunsetHour := ClockHour(day.Astronomy.Sunset)

		var highs, lows []string
		for _, t := range day.Tides {
			switch t.Type {
			case "HIGH":
				highs = append(highs, FormatClock(t.Time))
			case "LOW":
				lows = append(lows, FormatClock(t.Time))
			}
		}

		records := make([]HourlyRecord, 0, hoursPerDay)
		for i, h := range hours {
			hour := ClockHour(h.Time)
			cur := hourCurrents[i]
			records = append(records, HourlyRecord{
				Time:              h.Time,
				IsDay:             hour >= sunriseHour && hour < sunsetHour,
				WeatherCode:       ToDisplayCode(h.WeatherCode),
				TempC:             h.Temperature,
				WindSpeedKn:       int(math.Round(h.WindSpeedKph / 1.852)),
				WindDirectionDeg:  h.WindDirectionDeg,
				Pressure:          h.Pressure,
				Humidity:          h.Humidity,
				WaveHeightM:       h.WaveHeightM,
				WaterTempC:        h.WaterTempC,
				CurrentSpeedKn:    formatCurrentSpeed(cur.SpeedKn),
				CurrentDirection:  formatCurrentDirection(cur.Direction),
				PrecipitationProb: h.PrecipitationProb,
				Precipitation:     h.Precipitation,
				Tide:              closestTide(hour, day.Tides),
			})
		}

		// Live-hour selection rule: today tracks the wall clock, later days
		// use the 14:00 record.
		var live ProviderHour
		var liveCur CurrentHour
		if dayIdx == 0 {
			idx := firstHourAtOrAfter(hours, a.now().Hour())
			live, liveCur = hours[idx], hourCurrents[idx]
		} else {
			idx := indexOfHour(hours, "14:")
			live, liveCur = hours[idx], hourCurrents[idx]
		}

		morning, evening := NotAvailable, NotAvailable
		if w, ok := FindBestWindow(pairs, 4, 13); ok {
			morning = w
		}
		if w, ok := FindBestWindow(pairs, 14, 22); ok {
			evening = w
		}

		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			continue
		}

		peakWindKph := maxBy(hours, func(h ProviderHour) float64 { return h.WindSpeedKph })

		out = append(out, DailyForecast{
			Date:         day.Date,
			DayName:      date.Format("Mon"),
			DayDate:      date.Format("02/01"),
			LocationName: locationName,
			WeatherIcon:  WeatherIcon(ToDisplayCode(live.WeatherCode)),
			TempAvgC:     int(math.Round(meanBy(hours, func(h ProviderHour) float64 { return h.Temperature }))),
			TempMinC:     minBy(hours, func(h ProviderHour) float64 { return h.Temperature }),
			TempMaxC:     maxBy(hours, func(h ProviderHour) float64 { return h.Temperature }),
			Wind:         fmt.Sprintf("%.0f kn %s", peakWindKph/1.852, Direction16(repWind.WindDirectionDeg)),
			Sea:          seaSummary(hours, live, liveCur),
			Astronomy: Astronomy{
				Sunrise:   FormatClock(day.Astronomy.Sunrise),
				Sunset:    FormatClock(day.Astronomy.Sunset),
				MoonPhase: moonPhase,
			},
			IsNewOrFull: isNewOrFull,
			Tides: TideSummary{
				High:    highs,
				Low:     lows,
				Summary: fmt.Sprintf("High: %s | Low: %s", strings.Join(highs, ", "), strings.Join(lows, ", ")),
			},
			Averages: DailyAverages{
				PressureHpa:  int(math.Round(dailyPressure)),
				HumidityPct:  int(math.Round(meanBy(hours, func(h ProviderHour) float64 { return h.Humidity }))),
				WindSpeedKph: meanBy(hours, func(h ProviderHour) float64 { return h.WindSpeedKph }),
				WeatherCode:  dailyCode,
			},
			Trend: trend,
			Score: ScoreSummary{
				NumericScore: avgScore,
				DisplayScore: ClampDisplayScore(avgScore),
				HourlyScores: hourScores,
			},
			Windows: BestWindows{Morning: morning, Evening: evening},
			Hourly:  records,
		})

		prevPressure = &dailyPressure
	}

	if len(out) == 0 {
		return nil, ErrAssemblyFailed
	}
	return out, nil
}

// pressureTrend compares a day's mean pressure to the previous processed
// day's. The first processed day has no baseline and reads as stable.
func pressureTrend(current float64, previous *float64) Trend {
	if previous == nil {
		return TrendStable
	}
	switch {
	case current < *previous-0.5:
		return TrendFalling
	case current > *previous+0.5:
		return TrendRising
	default:
		return TrendStable
	}
}

// lookupCurrent joins the premium provider's reading for an exact hour,
// matched on the zero-padded hour string. Absent data yields the sentinel.
func lookupCurrent(currents map[string][]CurrentHour, date string, hour int) CurrentHour {
	none := CurrentHour{Hour: fmt.Sprintf("%02d", hour)}
	if currents == nil {
		return none
	}
	dayCurrents, ok := currents[date]
	if !ok {
		return none
	}
	want := fmt.Sprintf("%02d", hour)
	for _, c := range dayCurrents {
		if c.Hour == want {
			return c
		}
	}
	return none
}

// closestTide finds the tide event temporally closest to the given hour,
// comparing at hour resolution across all of the day's events.
func closestTide(hour int, tides []TideEvent) string {
	if len(tides) == 0 {
		return NotAvailable
	}
	best := tides[0]
	bestDiff := math.Abs(float64(ClockHour(best.Time) - hour))
	for _, t := range tides[1:] {
		diff := math.Abs(float64(ClockHour(t.Time) - hour))
		if diff < bestDiff {
			best = t
			bestDiff = diff
		}
	}
	label := "Low"
	if best.Type == "HIGH" {
		label = "High"
	}
	return fmt.Sprintf("%s %s", label, FormatClock(best.Time))
}

func seaSummary(hours []ProviderHour, live ProviderHour, liveCur CurrentHour) string {
	var waterTemps []float64
	for _, h := range hours {
		if h.WaterTempC != nil {
			waterTemps = append(waterTemps, *h.WaterTempC)
		}
	}
	waterTemp := NotAvailable
	if len(waterTemps) > 0 {
		sum := 0.0
		for _, t := range waterTemps {
			sum += t
		}
		waterTemp = fmt.Sprintf("%.0f°", sum/float64(len(waterTemps)))
	}

	current := NotAvailable
	if liveCur.SpeedKn != nil {
		current = fmt.Sprintf("%.1f kn %s", *liveCur.SpeedKn, formatCurrentDirection(liveCur.Direction))
	}
	return fmt.Sprintf("%s %s %s", SeaState(live.WaveHeightM), waterTemp, current)
}

func formatCurrentSpeed(speedKn *float64) string {
	if speedKn == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f", *speedKn)
}

func formatCurrentDirection(dir string) string {
	if dir == "" {
		return NotAvailable
	}
	return dir
}

// findHour returns the record whose time starts with prefix, falling back to
// the 13th record (index 12).
func findHour(hours []ProviderHour, prefix string) ProviderHour {
	return hours[indexOfHour(hours, prefix)]
}

func indexOfHour(hours []ProviderHour, prefix string) int {
	for i, h := range hours {
		if strings.HasPrefix(h.Time, prefix) {
			return i
		}
	}
	return 12
}

func firstHourAtOrAfter(hours []ProviderHour, wallHour int) int {
	for i, h := range hours {
		if ClockHour(h.Time) >= wallHour {
			return i
		}
	}
	return 0
}

func meanBy(hours []ProviderHour, f func(ProviderHour) float64) float64 {
	sum := 0.0
	for _, h := range hours {
		sum += f(h)
	}
	return sum / float64(len(hours))
}

func minBy(hours []ProviderHour, f func(ProviderHour) float64) float64 {
	m := f(hours[0])
	for _, h := range hours[1:] {
		if v := f(h); v < m {
			m = v
		}
	}
	return m
}

func maxBy(hours []ProviderHour, f func(ProviderHour) float64) float64 {
	m := f(hours[0])
	for _, h := range hours[1:] {
		if v := f(h); v > m {
			m = v
		}
	}
	return m
}
