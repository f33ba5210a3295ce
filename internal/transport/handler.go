// Package transport exposes the analysis pipeline over HTTP.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-color-inspector/internal/config"
	apperrors "go-color-inspector/internal/errors"
	"go-color-inspector/internal/logger"
	"go-color-inspector/internal/observer"
	"go-color-inspector/internal/service"
	"go-color-inspector/pkg/models"
	"go-color-inspector/pkg/palette"
	"go-color-inspector/pkg/services"
)

// Handler bundles the dependencies of the HTTP routes
type Handler struct {
	service   service.ColorAnalysisService
	reports   *services.ProfileReportService
	stats     *observer.StatsObserver
	cfg       *config.Config
	startedAt time.Time
}

// NewHandler builds the gin engine with all routes registered.
func NewHandler(
	analysisService service.ColorAnalysisService,
	reportService *services.ProfileReportService,
	stats *observer.StatsObserver,
	cfg *config.Config,
) http.Handler {
	gin.SetMode(cfg.GinMode)

	h := &Handler{
		service:   analysisService,
		reports:   reportService,
		stats:     stats,
		cfg:       cfg,
		startedAt: time.Now(),
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
	)

	r.GET("/health", h.health)
	r.GET("/palette", h.palette)
	r.POST("/analyze", h.analyze)
	r.POST("/analyze/batch", h.analyzeBatch)
	r.POST("/analyze/report", h.analyzeReport)
	r.POST("/traffic-light", h.trafficLight)

	return r
}

func (h *Handler) health(c *gin.Context) {
	doc := gin.H{
		"status": "available",
		"uptime": time.Since(h.startedAt).String(),
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if h.stats != nil {
		doc["stats"] = h.stats.GetStats()
	}
	c.JSON(http.StatusOK, doc)
}

// palette describes the band table and the recognized profiles.
func (h *Handler) palette(c *gin.Context) {
	table := palette.Default()

	profiles := make([]string, 0, len(palette.Profiles()))
	for _, p := range palette.Profiles() {
		profiles = append(profiles, string(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"bands":    table.Bands(),
		"profiles": profiles,
	})
}

func (h *Handler) analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	logger.WithFields(logrus.Fields{
		"url":     req.URL,
		"profile": req.Profile,
		"mode":    req.Mode,
		"ip":      c.ClientIP(),
	}).Info("Processing region analysis request")

	resp, err := h.service.AnalyzeURL(ctx, &req)
	if err != nil {
		respondError(c, determineStatusCode(err), "analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) analyzeBatch(c *gin.Context) {
	var req models.BatchAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	resp, err := h.service.AnalyzeBatch(ctx, &req)
	if err != nil {
		respondError(c, determineStatusCode(err), "batch analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) analyzeReport(c *gin.Context) {
	var req models.ProfileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	resp, err := h.reports.BuildReport(ctx, &req)
	if err != nil {
		respondError(c, determineStatusCode(err), "report failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) trafficLight(c *gin.Context) {
	var req models.TrafficLightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	resp, err := h.service.ClassifyTrafficLight(ctx, &req)
	if err != nil {
		respondError(c, determineStatusCode(err), "traffic light classification failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Middleware and helper functions

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
