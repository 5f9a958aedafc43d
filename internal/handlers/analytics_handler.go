package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hylehub-store/internal/models"
)

// Tracker es lo que el handler necesita del servicio de analítica
type Tracker interface {
	TrackVisit(ctx context.Context, ip, userAgent string) error
	TrackProductView(ctx context.Context, productID string) error
	Report(ctx context.Context) (*models.Report, error)
	Stats(ctx context.Context) (models.VisitStats, error)
}

type AnalyticsHandler struct {
	tracker Tracker
	log     logrus.FieldLogger
}

func NewAnalyticsHandler(tracker Tracker, log logrus.FieldLogger) *AnalyticsHandler {
	return &AnalyticsHandler{tracker: tracker, log: log}
}

// TrackVisit nunca falla hacia el visitante: los errores solo se registran
func (h *AnalyticsHandler) TrackVisit(c *gin.Context) {
	ip := c.ClientIP()
	if err := h.tracker.TrackVisit(c.Request.Context(), ip, c.Request.UserAgent()); err != nil {
		h.log.WithError(err).WithField("ip", ip).Warn("track visit failed")
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *AnalyticsHandler) TrackProductView(c *gin.Context) {
	id := c.Param("id")
	if err := h.tracker.TrackProductView(c.Request.Context(), id); err != nil {
		h.log.WithError(err).WithField("product_id", id).Warn("track product view failed")
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (h *AnalyticsHandler) Report(c *gin.Context) {
	report, err := h.tracker.Report(c.Request.Context())
	if err != nil {
		storeError(c, err, "failed to build analytics report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// Stats mantiene el endpoint antiguo del panel
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	stats, err := h.tracker.Stats(c.Request.Context())
	if err != nil {
		storeError(c, err, "failed to load analytics stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
