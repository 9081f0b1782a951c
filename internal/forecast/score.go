package forecast

import "math"

// ScoreInput is the hourly feature vector for the fishability score.
// Pointer fields are nil when the corresponding provider had no reading.
type ScoreInput struct {
	PressureHpa     float64
	PressureTrend   Trend
	WindSpeedKph    float64
	IsNewOrFullMoon bool
	CloudCoverPct   float64
	WaveHeightM     *float64
	WaterTempC      *float64
	CurrentSpeedKn  *float64
}

const baseScore = 3.0

// CalculateHourlyScore derives the additive fishability score for one hour.
// Every factor contributes exactly one reason entry, including neutral ones,
// so the client can always render a complete breakdown. Boundary values
// belong to the higher-scoring bucket.
func CalculateHourlyScore(in ScoreInput) ScoreResult {
	score := baseScore
	reasons := make([]Reason, 0, 7)

	add := func(factor, label string, delta float64) {
		score += delta
		polarity := "neutral"
		if delta > 0 {
			polarity = "positive"
		} else if delta < 0 {
			polarity = "negative"
		}
		reasons = append(reasons, Reason{Factor: factor, Label: label, DeltaPoints: delta, Polarity: polarity})
	}

	switch in.PressureTrend {
	case TrendFalling:
		add("pressure", "Falling pressure", 1.5)
	case TrendRising:
		add("pressure", "Rising pressure", -1.0)
	default:
		add("pressure", "Stable pressure", 0)
	}

	switch {
	case in.WindSpeedKph >= 5 && in.WindSpeedKph <= 20:
		add("wind", "Ideal wind (5-20 km/h)", 1.0)
	case in.WindSpeedKph > 30:
		add("wind", "Strong wind (>30 km/h)", -2.0)
	default:
		add("wind", "Light or variable wind", 0)
	}

	if in.IsNewOrFullMoon {
		add("moon", "New or full moon", 1.0)
	} else {
		add("moon", "Neutral moon phase", 0)
	}

	switch {
	case in.CloudCoverPct > 60:
		add("clouds", "Overcast (>60%)", 1.0)
	case in.CloudCoverPct < 20 && in.PressureHpa > 1018:
		add("clouds", "Clear sky with high pressure", -1.0)
	default:
		add("clouds", "Neutral cloud cover", 0)
	}

	if in.WaveHeightM != nil {
		switch h := *in.WaveHeightM; {
		case h >= 0.5 && h <= 1.25:
			add("waves", "Slight sea (0.5-1.25m)", 2.0)
		case h > 1.25 && h <= 2.5:
			add("waves", "Moderate sea (1.25-2.5m)", 1.0)
		case h < 0.5:
			add("waves", "Calm sea (<0.5m)", -1.0)
		default: // > 2.5
			add("waves", "Rough sea (>2.5m)", -2.0)
		}
	} else {
		add("waves", "Wave data unavailable", 0)
	}

	if in.WaterTempC != nil {
		switch t := *in.WaterTempC; {
		case t >= 12 && t <= 20:
			add("waterTemp", "Ideal water temperature (12-20°C)", 1.0)
		case t < 10 || t > 24:
			add("waterTemp", "Extreme water temperature", -1.0)
		default:
			add("waterTemp", "Neutral water temperature", 0)
		}
	} else {
		add("waterTemp", "Water temperature unavailable", 0)
	}

	if in.CurrentSpeedKn != nil {
		switch c := *in.CurrentSpeedKn; {
		case c >= 0.3 && c <= 0.8:
			add("current", "Ideal current (0.3-0.8 kn)", 1.0)
		case c > 0.8:
			add("current", "Strong current (>0.8 kn)", -1.0)
		default:
			add("current", "Weak or no current", 0)
		}
	} else {
		add("current", "Current data unavailable", 0)
	}

	return ScoreResult{
		NumericScore: score,
		DisplayScore: ClampDisplayScore(score),
		Reasons:      reasons,
	}
}

// ClampDisplayScore rounds a numeric score to the 1-5 display scale.
func ClampDisplayScore(score float64) int {
	d := int(math.Round(score))
	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}
