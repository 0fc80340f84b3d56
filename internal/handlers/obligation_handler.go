package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fincoach/internal/errors"
	"fincoach/internal/models"
	"fincoach/internal/services"
)

// ObligationHandler handles payment-obligation requests.
type ObligationHandler struct {
	obligationService services.ObligationServicer
	auditService      services.AuditServicer
}

// NewObligationHandler creates a new ObligationHandler.
func NewObligationHandler(obligationService services.ObligationServicer, auditService services.AuditServicer) *ObligationHandler {
	return &ObligationHandler{obligationService: obligationService, auditService: auditService}
}

// CreateObligationRequest represents the request payload for creating an obligation
type CreateObligationRequest struct {
	Title     string                     `json:"title" binding:"required,max=200"`
	Type      models.ObligationType      `json:"type" binding:"required,obligation_type"`
	Amount    float64                    `json:"amount" binding:"required,gt=0"`
	DueDate   string                     `json:"due_date" binding:"required"`
	Frequency models.ObligationFrequency `json:"frequency" binding:"required,obligation_frequency"`
	Provider  string                     `json:"provider" binding:"max=200"`
}

// MarkPaidRequest represents the payment-recording payload
type MarkPaidRequest struct {
	PaidOn *string `json:"paid_on"`
}

// CreateObligation registers a new obligation
// @Summary     Create an obligation
// @Description Register a recurring or one-time payment obligation
// @Tags        obligations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateObligationRequest true "Obligation details"
// @Success     201 {object} models.Obligation "Obligation created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /obligations [post]
func (h *ObligationHandler) CreateObligation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dueDate, err := parseFlexibleTime(req.DueDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	obligation, err := h.obligationService.CreateObligation(userID, req.Title, req.Type, req.Amount, dueDate, req.Frequency, req.Provider)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_OBLIGATION", "obligation", obligation.ID, c.ClientIP(),
		map[string]interface{}{"title": req.Title, "amount": req.Amount, "frequency": req.Frequency})

	c.JSON(http.StatusCreated, gin.H{"obligation": obligation})
}

// GetUserObligations lists the user's obligations
// @Summary     Get user obligations
// @Description Get all obligations for the authenticated user
// @Tags        obligations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} []models.Obligation "Obligations"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /obligations [get]
func (h *ObligationHandler) GetUserObligations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	obligations, err := h.obligationService.GetUserObligations(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"obligations": obligations})
}

// GetSchedule returns the obligation schedule
// @Summary     Get obligation schedule
// @Description Get each obligation's next pending occurrence, days until due, and overdue flag
// @Tags        obligations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       as_of query string false "Schedule reference date (RFC3339 or YYYY-MM-DD, default now)"
// @Success     200 {object} []engine.ObligationStatus "Obligation schedule"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /obligations/schedule [get]
func (h *ObligationHandler) GetSchedule(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	asOf := time.Now()
	if v := c.Query("as_of"); v != "" {
		parsed, parseErr := parseFlexibleTime(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid as_of format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		asOf = parsed
	}

	schedule, err := h.obligationService.Schedule(userID, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// MarkPaid records a payment against an obligation
// @Summary     Mark obligation paid
// @Description Record a payment covering the obligation's pending occurrence
// @Tags        obligations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int             true  "Obligation ID"
// @Param       request body MarkPaidRequest false "Payment date (default now)"
// @Success     200 {object} models.Obligation "Updated obligation"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Obligation not found"
// @Router      /obligations/{id}/pay [post]
func (h *ObligationHandler) MarkPaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	obligationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	paidOn := time.Now()
	if req.PaidOn != nil && *req.PaidOn != "" {
		parsed, parseErr := parseFlexibleTime(*req.PaidOn)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		paidOn = parsed
	}

	obligation, err := h.obligationService.MarkPaid(userID, obligationID, paidOn)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "OBLIGATION_PAID", "obligation", obligationID, c.ClientIP(),
		map[string]interface{}{"paid_on": paidOn.Format("2006-01-02")})

	c.JSON(http.StatusOK, gin.H{"obligation": obligation})
}

// DeleteObligation removes an obligation
// @Summary     Delete obligation
// @Description Remove an obligation from scheduling
// @Tags        obligations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Obligation ID"
// @Success     200 {object} MessageResponse "Obligation deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Obligation not found"
// @Router      /obligations/{id} [delete]
func (h *ObligationHandler) DeleteObligation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	obligationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.obligationService.DeleteObligation(userID, obligationID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_OBLIGATION", "obligation", obligationID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Obligation deleted successfully"})
}
