package services

import (
	"context"
	"errors"
	"testing"

	"fincoach/internal/explain"
	"fincoach/internal/models"
	"fincoach/internal/pagination"
	"fincoach/internal/testutil"
)

type stubExplainer struct {
	narrative string
	err       error
	calls     int
}

func (s *stubExplainer) Narrative(_ context.Context, _ explain.Payload) (string, error) {
	s.calls++
	return s.narrative, s.err
}

func TestGetRecommendations(t *testing.T) {
	t.Run("ranks_matching_product_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, nil)
		user := testutil.CreateTestUser(t, db) // moderate tolerance

		matching := testutil.CreateTestProduct(t, db, models.RiskLevelModerate, 10, 500)
		testutil.CreateTestProduct(t, db, models.RiskLevelHigh, 18, 50000)

		recs, err := svc.GetRecommendations(user.ID, 0)
		testutil.AssertNoError(t, err)
		if len(recs) != 2 {
			t.Fatalf("expected 2 recommendations, got %d", len(recs))
		}
		if recs[0].Product.ID != matching.ID {
			t.Errorf("expected matching product first, got %s", recs[0].Product.Name)
		}
		if recs[0].MatchScore <= recs[1].MatchScore {
			t.Error("expected descending match scores")
		}
	})

	t.Run("respects_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, nil)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 4; i++ {
			testutil.CreateTestProduct(t, db, models.RiskLevelModerate, 8, 100)
		}

		recs, err := svc.GetRecommendations(user.ID, 2)
		testutil.AssertNoError(t, err)
		if len(recs) != 2 {
			t.Errorf("expected 2 recommendations, got %d", len(recs))
		}
	})

	t.Run("attaches_narratives", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		explainer := &stubExplainer{narrative: "A steady fund for a moderate saver."}
		svc := NewRecommendationService(db, explainer)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestProduct(t, db, models.RiskLevelModerate, 10, 500)

		recs, err := svc.GetRecommendations(user.ID, 0)
		testutil.AssertNoError(t, err)
		if recs[0].Narrative != explainer.narrative {
			t.Errorf("expected narrative attached, got %q", recs[0].Narrative)
		}
		if explainer.calls != 1 {
			t.Errorf("expected 1 explainer call, got %d", explainer.calls)
		}
	})

	t.Run("explainer_failure_keeps_ranking", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		explainer := &stubExplainer{err: errors.New("upstream unavailable")}
		svc := NewRecommendationService(db, explainer)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestProduct(t, db, models.RiskLevelModerate, 10, 500)

		recs, err := svc.GetRecommendations(user.ID, 0)
		testutil.AssertNoError(t, err)
		if len(recs) != 1 {
			t.Fatalf("expected 1 recommendation, got %d", len(recs))
		}
		if recs[0].Narrative != "" {
			t.Errorf("expected empty narrative on explainer failure, got %q", recs[0].Narrative)
		}
	})

	t.Run("user_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, nil)

		_, err := svc.GetRecommendations(9999, 0)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})

	t.Run("empty_catalog", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, nil)
		user := testutil.CreateTestUser(t, db)

		recs, err := svc.GetRecommendations(user.ID, 0)
		testutil.AssertNoError(t, err)
		if len(recs) != 0 {
			t.Errorf("expected no recommendations, got %d", len(recs))
		}
	})
}

func TestListProducts(t *testing.T) {
	t.Run("paginated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecommendationService(db, nil)

		for i := 0; i < 3; i++ {
			testutil.CreateTestProduct(t, db, models.RiskLevelLow, 5, 100)
		}

		page := pagination.PageRequest{Page: 1, PageSize: 2}
		result, err := svc.ListProducts(page)
		testutil.AssertNoError(t, err)
		if result.TotalItems != 3 {
			t.Errorf("expected 3 total products, got %d", result.TotalItems)
		}
		if len(result.Data) != 2 {
			t.Errorf("expected 2 products on page, got %d", len(result.Data))
		}
		if result.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", result.TotalPages)
		}
	})
}
