package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"fishcast/internal/forecast"
	"fishcast/internal/geo"
)

const msToKnots = 1.94384

// StormglassProvider is the optional premium marine-current source. It is
// only invoked for locations near the configured premium reference point;
// its failure degrades the forecast instead of failing it.
type StormglassProvider struct {
	name    string
	baseURL string
	apiKey  string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewStormglassProvider(client *http.Client, apiKey string) *StormglassProvider {
	return &StormglassProvider{
		name:    "stormglass",
		baseURL: "https://api.stormglass.io/v2/weather/point",
		apiKey:  apiKey,
		httpCfg: defaultHTTPConfig(client),
		circuit: newBreaker("stormglass"),
	}
}

func (p *StormglassProvider) Name() string {
	return p.name
}

type stormglassPayload struct {
	Hours []struct {
		Time         string `json:"time"`
		CurrentSpeed struct {
			SG *float64 `json:"sg"`
		} `json:"currentSpeed"`
		CurrentDirection struct {
			SG *float64 `json:"sg"`
		} `json:"currentDirection"`
	} `json:"hours"`
}

// FetchCurrents returns the location's hourly current readings grouped by ISO
// date. Speeds are converted from m/s to knots with a 0.1 kn floor for tiny
// non-zero values; directions map to the 16-point rose.
func (p *StormglassProvider) FetchCurrents(ctx context.Context, loc geo.Location) (map[string][]forecast.CurrentHour, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("stormglass api key is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, perCallTimeout)
	defer cancel()

	var payload stormglassPayload
	err := getJSON(ctx, p.httpCfg, p.circuit, func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", loc.Lat))
		values.Set("lng", fmt.Sprintf("%f", loc.Lon))
		values.Set("params", "currentSpeed,currentDirection")
		req, err := http.NewRequest(http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", p.apiKey)
		return req, nil
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("stormglass fetch: %w", err)
	}
	if len(payload.Hours) == 0 {
		return nil, fmt.Errorf("stormglass returned no hourly data")
	}

	byDay := make(map[string][]forecast.CurrentHour)
	for _, h := range payload.Hours {
		date, rest, ok := strings.Cut(h.Time, "T")
		if !ok || len(rest) < 2 {
			continue
		}

		cur := forecast.CurrentHour{Hour: rest[:2]}
		if h.CurrentSpeed.SG != nil {
			kn := *h.CurrentSpeed.SG * msToKnots
			if kn > 0 && kn < 0.1 {
				kn = 0.1
			}
			cur.SpeedKn = &kn
		}
		if h.CurrentDirection.SG != nil {
			cur.Direction = forecast.Direction16(*h.CurrentDirection.SG)
		}
		byDay[date] = append(byDay[date], cur)
	}
	return byDay, nil
}
