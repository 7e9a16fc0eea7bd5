package router

import (
	"net/http"
	"time"

	apphttp "foodtruck_backend/internal/http"
	"foodtruck_backend/platform/apperr"
	"foodtruck_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	// Match on the escaped path so %2F stays inside a single segment.
	// gin's own unescaping treats '+' as a space, so handlers decode
	// through httpkit.PathParam instead.
	engine.UseRawPath = true
	engine.UnescapePathValues = false

	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.Metrics())
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(httpkit.CORS(app.Config.GetCORSOrigins(), app.Config.GetCORSAllowAll()))
	engine.Use(httpkit.Timeout(app.Config.GetRequestTimeout()))

	engine.GET("/health", healthHandler(app.Health))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	root := engine.Group("")
	if rps := app.Config.GetRateLimitRPS(); rps > 0 {
		limiter := httpkit.NewIPRateLimiter(rate.Limit(rps), app.Config.GetRateLimitBurst(), app.Logger)
		root.Use(limiter.RateLimit())
	}

	rc := &apphttp.RouterContext{
		Engine: engine,
		Root:   root,
	}
	for _, m := range app.Modules {
		m.RegisterRoutes(rc)
		app.Logger.Debug("module routes registered", "module", m.Name())
	}

	return engine
}

type healthResponse struct {
	Status   string     `json:"status"`
	Records  int        `json:"records"`
	Source   string     `json:"source,omitempty"`
	LoadedAt *time.Time `json:"loadedAt,omitempty"`
	Error    string     `json:"error,omitempty"`
}

func healthHandler(checker apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker == nil {
			c.JSON(http.StatusOK, healthResponse{Status: "ok"})
			return
		}

		report, err := checker.Health(c.Request.Context())
		if err != nil {
			status := http.StatusServiceUnavailable
			if apperr.GetKind(err) == apperr.KindInternal {
				status = http.StatusInternalServerError
			}
			c.JSON(status, healthResponse{Status: "unavailable", Error: err.Error()})
			return
		}

		loadedAt := report.LoadedAt.UTC()
		c.JSON(http.StatusOK, healthResponse{
			Status:   "ok",
			Records:  report.Records,
			Source:   report.Source,
			LoadedAt: &loadedAt,
		})
	}
}
