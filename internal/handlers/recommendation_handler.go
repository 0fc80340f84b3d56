package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "fincoach/internal/errors"
	"fincoach/internal/pagination"
	"fincoach/internal/services"
)

// RecommendationHandler handles product catalog and recommendation requests.
type RecommendationHandler struct {
	recommendationService services.RecommendationServicer
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(recommendationService services.RecommendationServicer) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

// GetRecommendations ranks products for the user
// @Summary     Get product recommendations
// @Description Score the product catalog against the user's profile, goals and disposable income
// @Tags        recommendations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum products to return (default 5)"
// @Success     200 {object} []services.ProductRecommendation "Ranked recommendations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /recommendations [get]
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
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

	recommendations, err := h.recommendationService.GetRecommendations(userID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}

// ListProducts lists the product catalog
// @Summary     List products
// @Description Get a paginated list of the product catalog
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Product] "Paginated products"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /products [get]
func (h *RecommendationHandler) ListProducts(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.recommendationService.ListProducts(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
