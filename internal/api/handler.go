package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/abarman/water-health-watch/internal/alerting"
	"github.com/abarman/water-health-watch/internal/dashboard"
	"github.com/abarman/water-health-watch/internal/models"
	"github.com/abarman/water-health-watch/internal/prediction"
	"github.com/abarman/water-health-watch/internal/repository"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
	alertListLimit   = 50
)

type Handler struct {
	store      repository.Store
	alerts     *alerting.Engine
	composer   *dashboard.Composer
	feed       *Feed
	staleAfter time.Duration
	now        func() time.Time
}

func NewHandler(store repository.Store, alerts *alerting.Engine, composer *dashboard.Composer, feed *Feed, staleAfter time.Duration) *Handler {
	return &Handler{
		store:      store,
		alerts:     alerts,
		composer:   composer,
		feed:       feed,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/health", h.health)
	api.GET("/water-data", h.getWaterData)
	api.POST("/water-data", h.postWaterData)
	api.GET("/health-data", h.getHealthData)
	api.POST("/health-data", h.postHealthData)
	api.GET("/alerts", h.getAlerts)
	api.POST("/alerts", h.postAlert)
	api.POST("/predict", h.predict)
	api.GET("/dashboard", h.getDashboard)
	api.GET("/sensor/status", h.sensorStatus)
	if h.feed != nil {
		api.GET("/ws", h.feed.Handle)
	}
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listFilter(c *gin.Context) repository.Filter {
	filter := repository.Filter{Limit: defaultListLimit}
	if loc := c.Query("location"); loc != "" {
		filter.Location = &loc
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= maxListLimit {
			filter.Limit = lim
		}
	}
	return filter
}

func (h *Handler) getWaterData(c *gin.Context) {
	readings, err := h.store.ListWaterReadings(c.Request.Context(), h.listFilter(c))
	if err != nil {
		slog.Error("listing water readings failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to fetch water data")
		return
	}
	if readings == nil {
		readings = []models.WaterReading{}
	}
	respondData(c, http.StatusOK, readings)
}

func (h *Handler) postWaterData(c *gin.Context) {
	var reading models.WaterReading
	if err := c.ShouldBindJSON(&reading); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	reading.ID = uuid.NewString()
	if reading.Timestamp.IsZero() {
		reading.Timestamp = h.now()
	}

	if err := h.store.AddWaterReading(c.Request.Context(), &reading); err != nil {
		slog.Error("storing water reading failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to store water data")
		return
	}
	respondData(c, http.StatusCreated, reading)
}

func (h *Handler) getHealthData(c *gin.Context) {
	cases, err := h.store.ListHealthCases(c.Request.Context(), h.listFilter(c))
	if err != nil {
		slog.Error("listing health cases failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to fetch health data")
		return
	}
	if cases == nil {
		cases = []models.HealthCase{}
	}
	respondData(c, http.StatusOK, cases)
}

func (h *Handler) postHealthData(c *gin.Context) {
	var hc models.HealthCase
	if err := c.ShouldBindJSON(&hc); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !hc.Severity.Valid() {
		respondError(c, http.StatusBadRequest, "severity must be one of mild, moderate, severe")
		return
	}

	hc.ID = uuid.NewString()
	hc.Symptoms = models.DedupSymptoms(hc.Symptoms)
	if hc.Timestamp.IsZero() {
		hc.Timestamp = h.now()
	}

	if err := h.store.AddHealthCase(c.Request.Context(), &hc); err != nil {
		slog.Error("storing health case failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to store health data")
		return
	}
	respondData(c, http.StatusCreated, hc)
}

func (h *Handler) getAlerts(c *gin.Context) {
	alerts, err := h.alerts.ListActive(c.Request.Context(), alertListLimit)
	if err != nil {
		slog.Error("listing alerts failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to fetch alerts")
		return
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	respondData(c, http.StatusOK, alerts)
}

func (h *Handler) postAlert(c *gin.Context) {
	var alert models.Alert
	if err := c.ShouldBindJSON(&alert); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.alerts.CreateAlert(c.Request.Context(), &alert); err != nil {
		if errors.Is(err, repository.ErrStorageUnavailable) {
			slog.Error("storing alert failed", "error", err)
			respondError(c, http.StatusInternalServerError, "failed to store alert")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondData(c, http.StatusCreated, alert)
}

func (h *Handler) predict(c *gin.Context) {
	var pctx models.PredictionContext
	if err := c.ShouldBindJSON(&pctx); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.alerts.EvaluateAndMaybeAlert(c.Request.Context(), pctx)
	if err != nil {
		if errors.Is(err, prediction.ErrTransport) {
			slog.Error("prediction failed", "location", pctx.Location, "error", err)
			respondError(c, http.StatusInternalServerError, "prediction service unavailable")
			return
		}
		slog.Error("alert derivation failed", "location", pctx.Location, "error", err)
		respondError(c, http.StatusInternalServerError, "failed to evaluate prediction")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "prediction": result})
}

func (h *Handler) getDashboard(c *gin.Context) {
	snapshot, err := h.composer.Snapshot(c.Request.Context(), h.now())
	if err != nil {
		slog.Error("dashboard composition failed", "error", err)
		respondError(c, http.StatusInternalServerError, "failed to compose dashboard")
		return
	}
	respondData(c, http.StatusOK, snapshot)
}

// sensorStatus never fails: a storage error degrades to not-connected.
func (h *Handler) sensorStatus(c *gin.Context) {
	status := models.SensorStatus{}

	latest, err := h.store.LatestWaterReading(c.Request.Context())
	if err != nil {
		slog.Error("fetching latest reading failed", "error", err)
	} else if latest != nil {
		status.LastUpdate = &latest.Timestamp
		status.CurrentReading = latest
		status.Connected = h.now().Sub(latest.Timestamp) <= h.staleAfter
	}

	respondData(c, http.StatusOK, status)
}
