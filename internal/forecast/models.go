package forecast

import (
	"context"
	"time"

	"fishcast/internal/geo"
)

// Trend classifies the day-over-day barometric pressure movement.
type Trend string

const (
	TrendFalling Trend = "falling"
	TrendRising  Trend = "rising"
	TrendStable  Trend = "stable"
)

// NotAvailable is the user-facing sentinel for data a provider did not supply.
const NotAvailable = "N/D"

// ProviderHour is one normalized hour from the atmospheric/marine hourly
// provider. Marine fields are nil where the provider had no data for the
// point (inland locations, model gaps).
type ProviderHour struct {
	Time              string // "HH:MM"
	Temperature       float64
	Humidity          float64
	Pressure          float64
	CloudCover        float64
	WindSpeedKph      float64
	WindDirectionDeg  float64
	WeatherCode       int // WMO code
	PrecipitationProb float64
	Precipitation     float64
	WaveHeightM       *float64
	WaterTempC        *float64
}

// TideEvent is a single high or low tide.
type TideEvent struct {
	Type string // "HIGH" or "LOW"
	Time string // "HH:MM"
}

// Astronomy holds the daily astronomical data from the tidal provider.
type Astronomy struct {
	Sunrise   string `json:"sunrise"` // "HH:MM"
	Sunset    string `json:"sunset"`  // "HH:MM"
	MoonPhase string `json:"moonPhase"`
}

// ProviderDay is one normalized day from the daily tidal/astronomical
// provider.
type ProviderDay struct {
	Date      string // "2006-01-02"
	Astronomy Astronomy
	Tides     []TideEvent
}

// CurrentHour is one normalized hour of marine current data from the premium
// provider. SpeedKn is nil when the provider reported no reading.
type CurrentHour struct {
	Hour      string // zero-padded "HH"
	SpeedKn   *float64
	Direction string // 16-point rose, or "" when unknown
}

// DailyProvider fetches per-day tide and astronomy data.
type DailyProvider interface {
	Name() string
	FetchDaily(ctx context.Context, loc geo.Location) ([]ProviderDay, error)
}

// HourlyProvider fetches hourly atmospheric and marine data grouped by
// ISO date.
type HourlyProvider interface {
	Name() string
	FetchHourly(ctx context.Context, loc geo.Location) (map[string][]ProviderHour, error)
}

// CurrentProvider fetches hourly marine current data grouped by ISO date.
type CurrentProvider interface {
	Name() string
	FetchCurrents(ctx context.Context, loc geo.Location) (map[string][]CurrentHour, error)
}

// Reason is one itemized contribution to an hourly score.
type Reason struct {
	Factor      string  `json:"factor"`
	Label       string  `json:"label"`
	DeltaPoints float64 `json:"deltaPoints"`
	Polarity    string  `json:"polarity"` // positive, negative or neutral
}

// ScoreResult is the output of the hourly score calculator.
type ScoreResult struct {
	NumericScore float64  `json:"numericScore"`
	DisplayScore int      `json:"displayScore"`
	Reasons      []Reason `json:"reasons"`
}

// HourScore pairs a formatted hour with its score and reasons for the daily
// summary.
type HourScore struct {
	Time    string   `json:"time"` // "HH:00"
	Score   float64  `json:"score"`
	Reasons []Reason `json:"reasons"`
}

// ScoreSummary aggregates a day's 24 hourly scores.
type ScoreSummary struct {
	NumericScore float64     `json:"numericScore"`
	DisplayScore int         `json:"displayScore"`
	HourlyScores []HourScore `json:"hourlyScores"`
}

// BestWindows holds the best contiguous 2-hour slots of the day.
type BestWindows struct {
	Morning string `json:"morning"`
	Evening string `json:"evening"`
}

// TideSummary groups a day's tide times for display.
type TideSummary struct {
	High    []string `json:"high"`
	Low     []string `json:"low"`
	Summary string   `json:"summary"` // "High: 04:30, 17:10 | Low: 10:45, 23:02"
}

// DailyAverages holds the day-level means used for the weekly table.
type DailyAverages struct {
	PressureHpa  int     `json:"pressure"`
	HumidityPct  int     `json:"humidity"`
	WindSpeedKph float64 `json:"windSpeedKph"`
	WeatherCode  string  `json:"weatherCode"`
}

// HourlyRecord is one hour of fused, client-facing data. Wind speed is
// converted to knots and the weather code mapped to the display vocabulary.
type HourlyRecord struct {
	Time              string   `json:"time"`
	IsDay             bool     `json:"isDay"`
	WeatherCode       string   `json:"weatherCode"`
	TempC             float64  `json:"tempC"`
	WindSpeedKn       int      `json:"windSpeedKn"`
	WindDirectionDeg  float64  `json:"windDirectionDeg"`
	Pressure          float64  `json:"pressure"`
	Humidity          float64  `json:"humidity"`
	WaveHeightM       *float64 `json:"waveHeightM"`
	WaterTempC        *float64 `json:"waterTempC"`
	CurrentSpeedKn    string   `json:"currentSpeedKn"`
	CurrentDirection  string   `json:"currentDirection"`
	PrecipitationProb float64  `json:"precipitationProb"`
	Precipitation     float64  `json:"precipitation"`
	Tide              string   `json:"tide"` // closest tide event, e.g. "High 04:30"
}

// DailyForecast is one assembled calendar day.
type DailyForecast struct {
	Date         string         `json:"date"` // "2006-01-02"
	DayName      string         `json:"dayName"`
	DayDate      string         `json:"dayDate"` // "02/01"
	LocationName string         `json:"locationName"`
	WeatherIcon  string         `json:"weatherIcon"`
	TempAvgC     int            `json:"tempAvgC"`
	TempMinC     float64        `json:"tempMinC"`
	TempMaxC     float64        `json:"tempMaxC"`
	Wind         string         `json:"wind"` // "12 kn NNW"
	Sea          string         `json:"sea"`  // "PM 18° 0.4 kn"
	Astronomy    Astronomy      `json:"astronomy"`
	IsNewOrFull  bool           `json:"isNewOrFullMoon"`
	Tides        TideSummary    `json:"tides"`
	Averages     DailyAverages  `json:"dailyAverages"`
	Trend        Trend          `json:"trendVsPreviousDay"`
	Score        ScoreSummary   `json:"scoreSummary"`
	Windows      BestWindows    `json:"bestWindows"`
	Hourly       []HourlyRecord `json:"hourly"` // exactly 24 entries
}

// ForecastBundle is the unit cached and returned to callers. FetchedAt lets a
// caller tell fresh data from a stale fallback.
type ForecastBundle struct {
	Sources   string          `json:"sources"`
	Forecast  []DailyForecast `json:"forecast"`
	DateRange string          `json:"dateRange"`
	FetchedAt time.Time       `json:"fetchedAt"`
}
