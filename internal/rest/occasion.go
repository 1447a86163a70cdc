package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"sille/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	OccasionHandler struct {
		occasionService OccasionService
		timeout         time.Duration
	}

	OccasionService interface {
		ReclassifyAll(ctx context.Context) (map[string]int, error)
		ClassifyPerfumeByID(ctx context.Context, perfumeID uint) ([]string, error)
	}
)

func NewOccasionHandler(svc OccasionService) *OccasionHandler {
	return &OccasionHandler{
		occasionService: svc,
		timeout:         5 * time.Minute,
	}
}

// POST /api/v1/admin/occasions/reclassify
func (h *OccasionHandler) ReclassifyAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	counts, err := h.occasionService.ReclassifyAll(ctx)
	if err != nil {
		logger.Error("Failed to reclassify occasions", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"message": "Occasion labels rebuilt",
		"counts":  counts,
	}))
}

// GET /api/v1/admin/occasions/preview/:perfume_id
func (h *OccasionHandler) Preview(c echo.Context) error {
	perfumeID, err := strconv.ParseUint(c.Param("perfume_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid perfume id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	labels, err := h.occasionService.ClassifyPerfumeByID(ctx, uint(perfumeID))
	if err != nil {
		logger.Error("Failed to classify perfume", err, "perfume_id", perfumeID)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"perfume_id": perfumeID,
		"occasions":  labels,
	}))
}
