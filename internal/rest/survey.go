package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sille/domain"
	"sille/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	SurveyHandler struct {
		validate     *validator.Validate
		surveyStore  SurveyStore
		invalidator  PreferenceInvalidator
		recoEnqueuer RecommendationEnqueuer
		timeout      time.Duration
	}

	SurveyStore interface {
		Upsert(ctx context.Context, survey *domain.SurveyResponse) error
		GetByUserID(ctx context.Context, userID uint) (*domain.SurveyResponse, error)
	}

	PreferenceInvalidator interface {
		InvalidateUser(ctx context.Context, userID uint)
	}

	RecommendationEnqueuer interface {
		Enqueue(userID uint) bool
	}

	SurveySubmitRequest struct {
		Gender  string             `json:"gender" validate:"required"`
		Ratings map[string]float64 `json:"ratings"`
	}
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func NewSurveyHandler(store SurveyStore, invalidator PreferenceInvalidator, enqueuer RecommendationEnqueuer) *SurveyHandler {
	return &SurveyHandler{
		validate:     validator.New(),
		surveyStore:  store,
		invalidator:  invalidator,
		recoEnqueuer: enqueuer,
		timeout:      10 * time.Second,
	}
}

// PUT /api/v1/survey
func (h *SurveyHandler) Submit(c echo.Context) error {
	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req SurveySubmitRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid survey request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		logger.Error("Failed to validate survey submission", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	for accord, rating := range req.Ratings {
		if rating != domain.SurveyUnknownRating && (rating < 0 || rating > 5) {
			return c.JSON(http.StatusBadRequest, ResponseError{
				Message: fmt.Sprintf("rating for %q must be between 0 and 5, or -1 for unknown", accord),
			})
		}
	}

	responseData := make(map[string]interface{}, len(req.Ratings)+1)
	responseData[domain.SurveyGenderKey] = req.Gender
	for accord, rating := range req.Ratings {
		responseData[accord] = rating
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	survey := &domain.SurveyResponse{
		UserID:       userID,
		ResponseData: responseData,
		CompletedAt:  time.Now(),
	}
	if err := h.surveyStore.Upsert(ctx, survey); err != nil {
		logger.Error("Failed to save survey response", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	h.invalidator.InvalidateUser(ctx, userID)

	if !h.recoEnqueuer.Enqueue(userID) {
		logger.Warn("Recommendation queue full, survey saved without refresh", "user_id", userID)
	}

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "Survey saved, recommendations are being refreshed.",
	})
}

// GET /api/v1/survey
func (h *SurveyHandler) Get(c echo.Context) error {
	uidVal := c.Get("user_id")
	userID, ok := uidVal.(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	survey, err := h.surveyStore.GetByUserID(ctx, userID)
	if err != nil {
		logger.Error("Failed to fetch survey response", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if survey == nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "survey not found"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(survey))
}
