package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"fishcast/internal/forecast"
	"fishcast/internal/geo"
)

// WorldWeatherProvider is the mandatory tidal/astronomical source
// (WorldWeatherOnline marine endpoint). It yields one ProviderDay per
// forecast day with tide events and astronomy, times normalized to HH:MM.
type WorldWeatherProvider struct {
	name         string
	baseURL      string
	apiKey       string
	forecastDays int
	httpCfg      HTTPClientConfig
	circuit      *gobreaker.CircuitBreaker
}

func NewWorldWeatherProvider(client *http.Client, apiKey string, forecastDays int) *WorldWeatherProvider {
	return &WorldWeatherProvider{
		name:         "worldweatheronline",
		baseURL:      "https://api.worldweatheronline.com/premium/v1/marine.ashx",
		apiKey:       apiKey,
		forecastDays: forecastDays,
		httpCfg:      defaultHTTPConfig(client),
		circuit:      newBreaker("worldweatheronline"),
	}
}

func (p *WorldWeatherProvider) Name() string {
	return p.name
}

type wwoPayload struct {
	Data struct {
		Weather []struct {
			Date      string `json:"date"`
			Astronomy []struct {
				Sunrise   string `json:"sunrise"`
				Sunset    string `json:"sunset"`
				MoonPhase string `json:"moon_phase"`
			} `json:"astronomy"`
			Tides []struct {
				TideData []struct {
					TideTime string `json:"tideTime"`
					TideType string `json:"tide_type"`
				} `json:"tide_data"`
			} `json:"tides"`
		} `json:"weather"`
	} `json:"data"`
}

func (p *WorldWeatherProvider) FetchDaily(ctx context.Context, loc geo.Location) ([]forecast.ProviderDay, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("worldweatheronline api key is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, perCallTimeout)
	defer cancel()

	var payload wwoPayload
	err := getJSON(ctx, p.httpCfg, p.circuit, func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", fmt.Sprintf("%f,%f", loc.Lat, loc.Lon))
		values.Set("format", "json")
		values.Set("tide", "yes")
		values.Set("fx", "yes")
		values.Set("day", fmt.Sprintf("%d", p.forecastDays))
		return http.NewRequest(http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("worldweatheronline fetch: %w", err)
	}

	weather := payload.Data.Weather
	if len(weather) == 0 {
		return nil, fmt.Errorf("worldweatheronline returned no weather data")
	}

	days := make([]forecast.ProviderDay, 0, len(weather))
	for _, w := range weather {
		day := forecast.ProviderDay{Date: w.Date}
		if _, err := time.Parse("2006-01-02", w.Date); err != nil {
			return nil, fmt.Errorf("worldweatheronline returned malformed date %q", w.Date)
		}
		if len(w.Astronomy) > 0 {
			day.Astronomy = forecast.Astronomy{
				Sunrise:   forecast.FormatClock(w.Astronomy[0].Sunrise),
				Sunset:    forecast.FormatClock(w.Astronomy[0].Sunset),
				MoonPhase: w.Astronomy[0].MoonPhase,
			}
		}
		for _, tides := range w.Tides {
			for _, t := range tides.TideData {
				day.Tides = append(day.Tides, forecast.TideEvent{
					Type: t.TideType,
					Time: forecast.FormatClock(t.TideTime),
				})
			}
		}
		days = append(days, day)
	}
	return days, nil
}
