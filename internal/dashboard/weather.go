package dashboard

import (
	"context"
	"math/rand"

	"github.com/abarman/water-health-watch/internal/models"
)

// MockWeather stands in for a real weather integration; the composer treats
// the block as opaque either way.
type MockWeather struct{}

func (MockWeather) Current(ctx context.Context) models.Weather {
	return models.Weather{
		Temperature: 28 + rand.Float64()*10,
		Humidity:    60 + rand.Float64()*30,
		Rainfall:    rand.Float64() * 50,
		Forecast:    "Partly cloudy with chance of rain",
	}
}

// StaticWeather returns a fixed block; used in tests and as a degraded
// default.
type StaticWeather struct {
	Weather models.Weather
}

func (s StaticWeather) Current(ctx context.Context) models.Weather {
	return s.Weather
}
