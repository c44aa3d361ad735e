package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oxtobyd/panelplanner/config"
	"github.com/oxtobyd/panelplanner/internal/api/handler"
	"github.com/oxtobyd/panelplanner/internal/api/middleware"
	"github.com/oxtobyd/panelplanner/internal/metrics"
	"github.com/oxtobyd/panelplanner/pkg/redis"
)

// Setup builds the Gin engine. rdb and m may be nil.
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── probes ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(rdb, cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window))
	{
		events := v1.Group("/events")
		{
			events.GET("", h.Event.ListEvents)
			events.POST("", h.Event.CreateEvent)
			events.GET("/historical-attendance", h.Event.HistoricalAttendance)
			events.GET("/:id", h.Event.GetEvent)
			events.PUT("/:id", h.Event.UpdateEvent)
			events.DELETE("/:id", h.Event.DeleteEvent)
		}

		secretaries := v1.Group("/secretaries")
		{
			secretaries.GET("", h.Secretary.ListSecretaries)
			secretaries.POST("", h.Secretary.CreateSecretary)
			secretaries.POST("/availability", h.Secretary.SetAvailability)
			secretaries.GET("/:id/availability", h.Secretary.ListAvailability)
			secretaries.DELETE("/:id/availability/:date", h.Secretary.DeleteAvailability)
		}

		venues := v1.Group("/venues")
		{
			venues.GET("", h.Venue.ListVenues)
			venues.POST("", h.Venue.CreateVenue)
		}

		terms := v1.Group("/term-dates")
		{
			terms.GET("", h.TermDate.ListTermDates)
			terms.POST("", h.TermDate.CreateTermDate)
			terms.POST("/import", h.TermDate.ImportTermDates)
			terms.PUT("/:id", h.TermDate.UpdateTermDate)
			terms.DELETE("/:id", h.TermDate.DeleteTermDate)
		}

		v1.GET("/seasons", h.Season.ListSeasons)
		v1.GET("/season-report", h.Season.SeasonReport)
		v1.GET("/calendar", h.Calendar.Month)
		v1.GET("/bank-holidays", h.Calendar.BankHolidays)

		export := v1.Group("/export")
		{
			export.GET("/season-report", h.Export.SeasonReport)
			export.GET("/events.ics", h.Export.EventsICS)
		}
	}

	return r
}
