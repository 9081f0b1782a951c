package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"fishcast/internal/forecast"
	"fishcast/internal/geo"
)

var validate = validator.New()

// Options tunes the HTTP surface.
type Options struct {
	// DefaultLocation is served when the location query parameter is absent.
	DefaultLocation string
	// RefreshSecret guards the manual cache refresh endpoint; empty disables it.
	RefreshSecret string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *forecast.Service, opts Options) {
	v1 := app.Group("/api/v1")

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		req := forecastQuery{Location: c.Query("location", opts.DefaultLocation)}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "location query parameter is required")
		}

		bundle, err := service.ResolveForecast(c.Context(), req.Location)
		if err != nil {
			switch {
			case errors.Is(err, geo.ErrInvalidLocation):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			case errors.Is(err, forecast.ErrAssemblyFailed):
				return fiber.NewError(fiber.StatusBadGateway, "no forecast data available for requested location")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast")
			}
		}
		return c.JSON(bundle)
	})

	v1.Get("/cache/refresh", func(c *fiber.Ctx) error {
		if opts.RefreshSecret == "" || c.Query("secret") != opts.RefreshSecret {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		if _, err := service.ResolveForecast(c.Context(), opts.DefaultLocation); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "cache refresh failed")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

// forecastQuery holds the query parameters for the forecast endpoint.
type forecastQuery struct {
	Location string `validate:"required"`
}
