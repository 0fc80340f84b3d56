package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "fincoach/internal/errors"
	"fincoach/internal/services"
)

// AlertHandler handles alert-engine requests.
type AlertHandler struct {
	alertService services.AlertServicer
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService services.AlertServicer) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// GenerateAlerts runs an on-demand generation pass
// @Summary     Generate alerts
// @Description Evaluate all alert rules against the user's current state; returns only newly created alerts
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} []models.Alert "Newly created alerts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /alerts/generate [post]
func (h *AlertHandler) GenerateAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alerts, err := h.alertService.GenerateAlerts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// GetAlerts lists the user's alerts
// @Summary     Get alerts
// @Description Get alerts ordered by priority then recency, optionally filtered by read state
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       is_read query bool false "Filter by read state"
// @Param       limit   query int  false "Maximum alerts to return (default 50)"
// @Success     200 {object} []models.Alert "Alerts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts [get]
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var isRead *bool
	if v := c.Query("is_read"); v != "" {
		parsed, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid is_read"))
			return
		}
		isRead = &parsed
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, parseErr := strconv.Atoi(v)
		if parseErr != nil || n < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid limit"))
			return
		}
		limit = n
	}

	alerts, err := h.alertService.GetAlerts(userID, isRead, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// MarkAlertRead marks one alert as read
// @Summary     Mark alert read
// @Description Mark an alert as read; the transition is one way
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Alert ID"
// @Success     200 {object} models.Alert "Updated alert"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Alert not found"
// @Router      /alerts/{id}/read [post]
func (h *AlertHandler) MarkAlertRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alertID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	alert, err := h.alertService.MarkAlertRead(userID, alertID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}
