package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sille/business/recommendation"
	"sille/domain"
	"sille/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		matches     MatchLister
		recommender Recommender
		timeout     time.Duration
	}

	MatchLister interface {
		ListForUser(ctx context.Context, userID uint, limit int) ([]domain.PerfumeMatch, error)
	}

	Recommender interface {
		Generate(ctx context.Context, userID uint) ([]domain.MatchResult, error)
	}

	RecommendationQuery struct {
		N       int  `query:"n"`
		Refresh bool `query:"refresh"`
	}
)

func NewRecommendationHandler(matches MatchLister, recommender Recommender) *RecommendationHandler {
	return &RecommendationHandler{
		matches:     matches,
		recommender: recommender,
		timeout:     15 * time.Second,
	}
}

// GET /api/v1/recommendations?n=20
func (h *RecommendationHandler) List(c echo.Context) error {
	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q RecommendationQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if q.N <= 0 {
		q.N = 20
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if q.Refresh {
		return h.generate(ctx, c, userID, q.N)
	}

	matches, err := h.matches.ListForUser(ctx, userID, q.N)
	if err != nil {
		logger.Error("Failed to list recommendations", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	if len(matches) == 0 {
		return h.generate(ctx, c, userID, q.N)
	}

	results := make([]domain.MatchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, domain.MatchResult{PerfumeID: m.PerfumeID, Score: m.MatchScore})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(results))
}

// generate computes fresh scores synchronously when nothing is persisted
// yet or the caller asked for a refresh.
func (h *RecommendationHandler) generate(ctx context.Context, c echo.Context, userID uint, limit int) error {
	results, err := h.recommender.Generate(ctx, userID)
	if err != nil {
		if errors.Is(err, recommendation.ErrNotPossible) {
			return c.JSON(http.StatusConflict, ResponseError{
				Message: "recommendations are not available yet, complete the scent survey first",
			})
		}
		logger.Error("Failed to generate recommendations", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	if len(results) > limit {
		results = results[:limit]
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(results))
}
