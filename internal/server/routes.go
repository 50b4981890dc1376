package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/muurk/molehole/internal/discovery"
	"github.com/muurk/molehole/internal/logging"
)

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) newRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	r.GET("/healthz", s.handleHealth)
	r.GET("/ws", s.handleWebSocket)

	api := r.Group("/api")
	{
		api.GET("/devices", s.handleDevices(discovery.SourceAll))
		api.GET("/devices/lan", s.handleDevices(discovery.SourceLAN))
		api.GET("/devices/ap", s.handleDevices(discovery.SourceAP))
	}
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.LogHTTPRequest(c.Request.RemoteAddr, c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleDevices runs one discovery over source. The "timeout" query
// parameter is the LAN window in seconds; absent means the default.
func (s *Server) handleDevices(source string) gin.HandlerFunc {
	return func(c *gin.Context) {
		timeout, err := parseTimeout(c.Query("timeout"), s.config.DefaultTimeout)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		result := s.runner.Run(c.Request.Context(), source, timeout)
		c.JSON(http.StatusOK, result)
	}
}

// parseTimeout accepts any float; range handling is left to the engine.
func parseTimeout(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &timeoutError{raw: raw}
	}
	return v, nil
}

type timeoutError struct {
	raw string
}

func (e *timeoutError) Error() string {
	return "invalid timeout " + strconv.Quote(e.raw) + ": expected seconds as a number"
}
