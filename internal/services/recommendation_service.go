package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fincoach/internal/engine"
	apperrors "fincoach/internal/errors"
	"fincoach/internal/explain"
	"fincoach/internal/models"
	"fincoach/internal/pagination"
)

const defaultRecommendationLimit = 5

// recommendationService scores the product catalog against a user's
// profile, goals and disposable income.
type recommendationService struct {
	db        *gorm.DB
	explainer explain.Explainer
	cfg       engine.ScoringConfig
}

// NewRecommendationService creates a new RecommendationServicer. The
// explainer may be nil, in which case recommendations carry no
// narrative.
func NewRecommendationService(db *gorm.DB, explainer explain.Explainer) RecommendationServicer {
	if explainer == nil {
		explainer = explain.Disabled{}
	}
	return &recommendationService{
		db:        db,
		explainer: explainer,
		cfg:       engine.DefaultScoringConfig(),
	}
}

// GetRecommendations ranks the catalog for the user and returns at
// most limit products. Narrative generation is best effort: a failed
// explainer call leaves the narrative empty and the ranking intact.
func (s *recommendationService) GetRecommendations(userID uint, limit int) ([]ProductRecommendation, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	var goals []models.Goal
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.GoalStatusActive).
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var obligations []models.Obligation
	if err := s.db.Where("user_id = ?", userID).Find(&obligations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var catalog []models.Product
	if err := s.db.Order("id asc").Find(&catalog).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	profile := engine.Profile{
		Income:        user.Income,
		RiskTolerance: user.RiskTolerance,
		LiquidBalance: user.LiquidBalance,
	}
	disposable := engine.DisposableIncome(user.Income, obligations)
	ranked := engine.ScoreRecommendations(profile, goals, disposable, catalog, limit, s.cfg, time.Now())

	recommendations := make([]ProductRecommendation, 0, len(ranked))
	for _, r := range ranked {
		rec := ProductRecommendation{RankedProduct: r}
		narrative, err := s.explainer.Narrative(context.Background(), explain.Payload{
			ProductName:      r.Product.Name,
			ProductType:      r.Product.Type,
			ExpectedReturn:   r.Product.ExpectedReturn,
			MatchScore:       r.MatchScore,
			RiskTolerance:    user.RiskTolerance,
			ReasoningFactors: r.ReasoningFactors,
			Allocation:       r.RecommendedAllocation,
		})
		if err == nil {
			rec.Narrative = narrative
		}
		recommendations = append(recommendations, rec)
	}

	return recommendations, nil
}

// ListProducts returns the full catalog, paginated.
func (s *recommendationService) ListProducts(page pagination.PageRequest) (*pagination.PageResponse[models.Product], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Product{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var products []models.Product
	if err := s.db.Order("name asc").Scopes(pagination.Paginate(page)).Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(products, page.Page, page.PageSize, totalItems)
	return &result, nil
}
