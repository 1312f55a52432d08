package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/temperature-data-analysis/internal/analysis"
	"github.com/i474232898/temperature-data-analysis/internal/dataset"
	"github.com/i474232898/temperature-data-analysis/internal/store"
	"github.com/i474232898/temperature-data-analysis/internal/weather"
)

var validate = validator.New()

// API bundles the dependencies the HTTP handlers work against.
type API struct {
	Store      *store.MemoryStore
	Dispatcher *analysis.Dispatcher
	Harness    *weather.FetchHarness

	// Records is the historical dataset the comparison endpoints re-analyze.
	Records []dataset.Record
	// Cities are fetched by the live comparison endpoint.
	Cities []string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, api API) {
	v1 := app.Group("/api/v1")

	v1.Get("/temperature/current", func(c *fiber.Ctx) error {
		req, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reading, err := api.Store.LatestReading(req.City)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no current reading for requested city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load current reading")
		}

		return c.JSON(reading)
	})

	v1.Get("/temperature/history", func(c *fiber.Ctx) error {
		var req seriesQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		readings, err := api.Store.ReadingRange(req.City.City, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no reading history for requested city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load reading history")
		}

		return c.JSON(fiber.Map{
			"city":     req.City.City,
			"count":    len(readings),
			"readings": readings,
		})
	})

	v1.Get("/analysis/series", func(c *fiber.Ctx) error {
		var req seriesQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := api.Store.AnnotatedSeries(req.City.City, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no analysis for requested city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load annotated series")
		}

		return c.JSON(fiber.Map{
			"city":    req.City.City,
			"count":   len(records),
			"records": records,
		})
	})

	v1.Get("/analysis/anomalies", func(c *fiber.Ctx) error {
		req, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		anomalies, err := api.Store.Anomalies(req.City)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no analysis for requested city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load anomalies")
		}

		return c.JSON(fiber.Map{
			"city":      req.City,
			"count":     len(anomalies),
			"anomalies": anomalies,
		})
	})

	v1.Get("/analysis/seasonal", func(c *fiber.Ctx) error {
		// City is optional here; without it the whole profile table is returned.
		city := c.Query("city")
		if city == "" {
			return c.JSON(fiber.Map{"stats": api.Store.SeasonalTable()})
		}

		stats, err := api.Store.SeasonalStats(city)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no seasonal stats for requested city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load seasonal stats")
		}

		return c.JSON(fiber.Map{
			"city":  city,
			"stats": stats,
		})
	})

	v1.Post("/compare/analysis", func(c *fiber.Ctx) error {
		_, cmp, err := api.Dispatcher.Compare(api.Records)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "analysis comparison failed")
		}

		api.Store.SaveAnalysisComparison(cmp)
		return c.JSON(cmp)
	})

	v1.Get("/compare/analysis", func(c *fiber.Ctx) error {
		cmp, ok := api.Store.AnalysisComparison()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no analysis comparison recorded yet")
		}
		return c.JSON(cmp)
	})

	v1.Post("/compare/fetch", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 30*time.Second)
		defer cancel()

		cmp, err := api.Harness.Compare(ctx, api.Cities)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "fetch comparison failed")
		}

		api.Store.SaveFetchComparison(cmp)
		return c.JSON(cmp)
	})

	v1.Get("/compare/fetch", func(c *fiber.Ctx) error {
		cmp, ok := api.Store.FetchComparison()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no fetch comparison recorded yet")
		}
		return c.JSON(cmp)
	})
}

// cityQuery holds the query parameter identifying a city.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	var q cityQuery

	q.City = c.Query("city")

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// seriesQuery holds query parameters for the annotated series endpoint.
// From and To are optional; a zero value leaves that side of the range open.
type seriesQuery struct {
	City cityQuery
	From time.Time
	To   time.Time
}

func (s *seriesQuery) bind(c *fiber.Ctx) error {
	city, err := parseCityQuery(c)
	if err != nil {
		return err
	}
	s.City = city

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := parseTime(fromStr)
		if err != nil {
			return err
		}
		s.From = from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := parseTime(toStr)
		if err != nil {
			return err
		}
		s.To = to
	}

	if !s.From.IsZero() && !s.To.IsZero() && s.To.Before(s.From) {
		return errors.New("to must not be before from")
	}
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
