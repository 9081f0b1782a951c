package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"fishcast/internal/forecast"
	"fishcast/internal/geo"
)

// perCallTimeout bounds every outbound provider call.
const perCallTimeout = 15 * time.Second

// OpenMeteoProvider is the mandatory atmospheric + marine hourly source. One
// fetch issues two concurrent calls (forecast and marine endpoints) and
// merges them by hour index into per-day groups.
type OpenMeteoProvider struct {
	name         string
	forecastURL  string
	marineURL    string
	forecastDays int
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, forecastDays int) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:         "openmeteo",
		forecastURL:  "https://api.open-meteo.com/v1/forecast",
		marineURL:    "https://marine-api.open-meteo.com/v1/marine",
		forecastDays: forecastDays,
		httpCfg:      defaultHTTPConfig(client),
		circuit:      newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoForecastPayload struct {
	Hourly struct {
		Time                     []string  `json:"time"`
		Temperature2m            []float64 `json:"temperature_2m"`
		RelativeHumidity2m       []float64 `json:"relative_humidity_2m"`
		PressureMsl              []float64 `json:"pressure_msl"`
		CloudCover               []float64 `json:"cloud_cover"`
		WindSpeed10m             []float64 `json:"windspeed_10m"`
		WindDirection10m         []float64 `json:"winddirection_10m"`
		WeatherCode              []int     `json:"weathercode"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
		Precipitation            []float64 `json:"precipitation"`
	} `json:"hourly"`
}

type openMeteoMarinePayload struct {
	Hourly struct {
		Time                  []string   `json:"time"`
		WaveHeight            []*float64 `json:"wave_height"`
		SeaSurfaceTemperature []*float64 `json:"sea_surface_temperature"`
	} `json:"hourly"`
}

// FetchHourly returns the location's hourly records grouped by ISO date. Both
// underlying calls must succeed; marine gaps surface as nil fields, an
// outright marine failure fails the provider.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, loc geo.Location) (map[string][]forecast.ProviderHour, error) {
	ctx, cancel := context.WithTimeout(ctx, perCallTimeout)
	defer cancel()

	var (
		fc     openMeteoForecastPayload
		marine openMeteoMarinePayload
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return getJSON(gctx, p.httpCfg, p.circuit, func() (*http.Request, error) {
			return p.buildRequest(p.forecastURL, loc, strings.Join([]string{
				"temperature_2m", "relative_humidity_2m", "pressure_msl", "cloud_cover",
				"windspeed_10m", "winddirection_10m", "weathercode",
				"precipitation_probability", "precipitation",
			}, ","))
		}, &fc)
	})
	g.Go(func() error {
		return getJSON(gctx, p.httpCfg, p.circuit, func() (*http.Request, error) {
			return p.buildRequest(p.marineURL, loc, "wave_height,sea_surface_temperature")
		}, &marine)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("openmeteo fetch: %w", err)
	}

	h := fc.Hourly
	if len(h.Time) == 0 {
		return nil, fmt.Errorf("openmeteo returned no hourly data")
	}

	byDay := make(map[string][]forecast.ProviderHour)
	for i, ts := range h.Time {
		date, hour, ok := strings.Cut(ts, "T")
		if !ok {
			continue
		}
		rec := forecast.ProviderHour{
			Time:              hour,
			Temperature:       at(h.Temperature2m, i),
			Humidity:          at(h.RelativeHumidity2m, i),
			Pressure:          at(h.PressureMsl, i),
			CloudCover:        at(h.CloudCover, i),
			WindSpeedKph:      at(h.WindSpeed10m, i),
			WindDirectionDeg:  at(h.WindDirection10m, i),
			PrecipitationProb: at(h.PrecipitationProbability, i),
			Precipitation:     at(h.Precipitation, i),
		}
		if i < len(h.WeatherCode) {
			rec.WeatherCode = h.WeatherCode[i]
		}
		if i < len(marine.Hourly.WaveHeight) {
			rec.WaveHeightM = marine.Hourly.WaveHeight[i]
		}
		if i < len(marine.Hourly.SeaSurfaceTemperature) {
			rec.WaterTempC = marine.Hourly.SeaSurfaceTemperature[i]
		}
		byDay[date] = append(byDay[date], rec)
	}
	return byDay, nil
}

func (p *OpenMeteoProvider) buildRequest(baseURL string, loc geo.Location, params string) (*http.Request, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Lat))
	values.Set("longitude", fmt.Sprintf("%f", loc.Lon))
	values.Set("hourly", params)
	values.Set("forecast_days", fmt.Sprintf("%d", p.forecastDays))
	return http.NewRequest(http.MethodGet, baseURL+"?"+values.Encode(), nil)
}

func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}
