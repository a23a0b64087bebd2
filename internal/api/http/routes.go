package httpapi

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/trendscope/trends-data-service/internal/common"
	"github.com/trendscope/trends-data-service/internal/countries"
	"github.com/trendscope/trends-data-service/internal/trends"
)

var validate = validator.New()

// RequireToken guards routes registered after it with a shared bearer token.
// /health and /metrics stay open for probes and scrapers.
func RequireToken(apiToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Path() {
		case "/health", "/metrics":
			return c.Next()
		}
		if apiToken == "" {
			return fiber.NewError(fiber.StatusInternalServerError, "API_TOKEN not set")
		}
		token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if token != apiToken {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Next()
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *trends.Service) {
	app.Get("/regions", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"regions":   countries.ByRegion(),
			"countries": countries.All(),
		})
	})

	app.Get("/trends", func(c *fiber.Ctx) error {
		var req trendsQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rows, err := service.TrendsByCountry(c.Context(), trends.CountryQuery{
			Country:      req.Country,
			WindowDays:   req.WindowDays,
			BreakoutOnly: req.BreakoutOnly,
			Limit:        req.Limit,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to query trends")
		}
		if rows == nil {
			rows = []trends.CountryTrend{}
		}

		return c.JSON(fiber.Map{
			"country":      req.Country,
			"windowDays":   req.WindowDays,
			"breakoutOnly": req.BreakoutOnly,
			"limit":        req.Limit,
			"data":         rows,
		})
	})

	app.Get("/top", func(c *fiber.Ctx) error {
		var req topQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rows, err := service.TopByRegion(c.Context(), trends.RegionQuery{
			Region:     req.Region,
			WindowDays: req.WindowDays,
			Limit:      req.Limit,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to query region top")
		}
		if rows == nil {
			rows = []trends.RegionTrend{}
		}

		return c.JSON(fiber.Map{
			"region":     req.Region,
			"windowDays": req.WindowDays,
			"limit":      req.Limit,
			"data":       rows,
		})
	})

	app.Get("/recent", func(c *fiber.Ctx) error {
		var req recentQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rows, err := service.RecentTerms(c.Context(), req.Country, req.Limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to query recent terms")
		}
		if rows == nil {
			rows = []trends.RecentTerm{}
		}

		return c.JSON(fiber.Map{
			"country": req.Country,
			"limit":   req.Limit,
			"data":    rows,
		})
	})

	app.Post("/ingest", func(c *fiber.Ctx) error {
		var body ingestRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
			}
		}

		date := body.Date
		if date == "" {
			date = common.TodayStr()
		}
		if !common.ValidDate(date) {
			return fiber.NewError(fiber.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		}
		cadence := body.Cadence
		if cadence == "" {
			cadence = "manual"
		}

		runID, summaries := service.RunIngest(c.Context(), date, cadence)
		return c.JSON(fiber.Map{
			"ok":        true,
			"runId":     runID,
			"date":      date,
			"summaries": summaries,
		})
	})
}

type trendsQuery struct {
	Country      string `validate:"required,len=2,alpha"`
	WindowDays   int    `validate:"gte=1,lte=365"`
	BreakoutOnly bool
	Limit        int `validate:"gte=1,lte=100"`
}

func (q *trendsQuery) bind(c *fiber.Ctx) error {
	q.Country = strings.ToUpper(c.Query("country"))
	q.WindowDays = c.QueryInt("windowDays", 30)
	q.BreakoutOnly = c.QueryBool("breakoutOnly", false)
	q.Limit = c.QueryInt("limit", 20)
	return validate.Struct(q)
}

type topQuery struct {
	Region     string `validate:"required"`
	WindowDays int    `validate:"gte=1,lte=365"`
	Limit      int    `validate:"gte=1,lte=100"`
}

func (q *topQuery) bind(c *fiber.Ctx) error {
	q.Region = c.Query("region")
	q.WindowDays = c.QueryInt("windowDays", 30)
	q.Limit = c.QueryInt("limit", 30)
	return validate.Struct(q)
}

type recentQuery struct {
	Country string `validate:"required,len=2,alpha"`
	Limit   int    `validate:"gte=1,lte=100"`
}

func (q *recentQuery) bind(c *fiber.Ctx) error {
	q.Country = strings.ToUpper(c.Query("country"))
	q.Limit = c.QueryInt("limit", 7)
	return validate.Struct(q)
}

type ingestRequest struct {
	Date    string `json:"date"`
	Cadence string `json:"cadence"`
}
