package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tripplanner/metrics"
)

// Capabilities is reported by the health endpoint.
type Capabilities struct {
	LLMProvider string `json:"llm_provider"`
	LiveData    bool   `json:"live_data"`
	TipsStore   string `json:"tips_store"`
}

func HealthHandler(caps Capabilities) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"service":      "tripplanner",
			"capabilities": caps,
		})
	}
}

// NewRouter serves the web UI, the plan_trip tool, health and metrics.
func NewRouter(p TripPlanner, caps Capabilities, frontendURLs string) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(frontendURLs))
	r.SetHTMLTemplate(Templates())

	r.GET("/", IndexHandler)
	r.POST("/plan", PlanFormHandler(p))
	r.POST("/download/text", DownloadTextHandler)
	r.POST("/download/pdf", DownloadPDFHandler)

	r.POST("/tools/plan_trip", PlanTripHandler(p))

	r.GET("/api/health", HealthHandler(caps))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	return r
}

// NewA2ARouter serves the agent-to-agent wrapper in front of the tool server.
func NewA2ARouter(f *ToolForwarder) *gin.Engine {
	r := gin.Default()
	r.POST("/a2a", A2AHandler(f))
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "tripplanner-a2a"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	return r
}

// corsMiddleware allows the local dev origins plus any comma-separated extras.
func corsMiddleware(frontendURLs string) gin.HandlerFunc {
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	for _, u := range strings.Split(frontendURLs, ",") {
		if u = strings.TrimSpace(u); u != "" {
			allowedOrigins = append(allowedOrigins, u)
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}
