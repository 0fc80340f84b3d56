package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fincoach/internal/errors"
	"fincoach/internal/models"
	"fincoach/internal/pagination"
	"fincoach/internal/services"
)

// GoalHandler handles savings-goal requests.
type GoalHandler struct {
	goalService  services.GoalServicer
	auditService services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, auditService: auditService}
}

// CreateGoalRequest represents the request payload for creating a goal
type CreateGoalRequest struct {
	Title                   string               `json:"title" binding:"required,max=200"`
	TargetAmount            float64              `json:"target_amount" binding:"required,gt=0"`
	CurrentAmount           float64              `json:"current_amount" binding:"omitempty,min=0"`
	TargetDate              string               `json:"target_date" binding:"required"`
	MonthlyContributionHint *float64             `json:"monthly_contribution_hint" binding:"omitempty,gt=0"`
	RiskTolerance           models.RiskTolerance `json:"risk_tolerance" binding:"omitempty,risk_tolerance"`
}

// ContributionRequest represents a contribution to a goal
type ContributionRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// CreateGoal handles goal creation
// @Summary     Create a savings goal
// @Description Create a new savings goal with a target amount and date
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} models.Goal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	targetDate, err := parseFlexibleTime(req.TargetDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.CreateGoal(userID, req.Title, req.TargetAmount, req.CurrentAmount,
		targetDate, req.MonthlyContributionHint, req.RiskTolerance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_GOAL", "goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"title": req.Title, "target_amount": req.TargetAmount})

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetUserGoals lists the user's goals
// @Summary     Get user goals
// @Description Get a paginated list of goals with an optional status filter
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       status    query string false "Filter by status (active, completed, abandoned)"
// @Success     200 {object} pagination.PageResponse[models.Goal] "Paginated goals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /goals [get]
func (h *GoalHandler) GetUserGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.GoalStatus
	if v := c.Query("status"); v != "" {
		goalStatus := models.GoalStatus(v)
		switch goalStatus {
		case models.GoalStatusActive, models.GoalStatusCompleted, models.GoalStatusAbandoned:
			status = &goalStatus
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid status, must be active, completed, or abandoned"))
			return
		}
	}

	result, err := h.goalService.GetUserGoals(userID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetGoalByID returns one goal
// @Summary     Get goal by ID
// @Description Get a specific goal by ID
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Success     200 {object} models.Goal "Goal details"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoalByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoalByID(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// RecordContribution adds funds to a goal
// @Summary     Record a contribution
// @Description Add a contribution to an active goal; reaching the target completes the goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Goal ID"
// @Param       request body ContributionRequest true "Contribution amount"
// @Success     200 {object} models.Goal "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     409 {object} ErrorResponse "Goal is not active"
// @Router      /goals/{id}/contribute [post]
func (h *GoalHandler) RecordContribution(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.RecordContribution(userID, goalID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "GOAL_CONTRIBUTION", "goal", goalID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// AbandonGoal abandons an active goal
// @Summary     Abandon a goal
// @Description Mark an active goal as abandoned
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Success     200 {object} models.Goal "Abandoned goal"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     409 {object} ErrorResponse "Goal already completed or abandoned"
// @Router      /goals/{id}/abandon [post]
func (h *GoalHandler) AbandonGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.AbandonGoal(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ABANDON_GOAL", "goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// PlanGoal computes the contribution plan for one goal
// @Summary     Plan a goal
// @Description Compute the required monthly contribution and feasibility for a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Success     200 {object} engine.GoalPlan "Contribution plan"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     422 {object} ErrorResponse "Goal cannot be planned"
// @Router      /goals/{id}/plan [get]
func (h *GoalHandler) PlanGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	plan, err := h.goalService.PlanGoal(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// PlanActiveGoals plans every active goal
// @Summary     Plan all active goals
// @Description Compute contribution plans for every active goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} []engine.PlannedGoal "Plans for active goals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /goals/plan [get]
func (h *GoalHandler) PlanActiveGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	plans, err := h.goalService.PlanActiveGoals(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"plans": plans})
}
