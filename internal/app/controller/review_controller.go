package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/messreview-backend/internal/app/service"
	apperrors "github.com/ikkim/messreview-backend/internal/errors"
	"github.com/ikkim/messreview-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// SubmitReviewRequest leaves range checks to the service so that an
// unselected rating (0) gets its own message.
type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func respondReviewError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrInvalidRating):
		apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Please select a rating.")
	case errors.Is(err, service.ErrFoodItemNotFound):
		apperrors.NotFound(c, apperrors.FoodItemNotFound, "Food item not found")
	case errors.Is(err, service.ErrReviewNotFound):
		apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
	default:
		middleware.GetLoggerFromContext(c).Error("Review request failed", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// ListReviews returns an item's reviews, newest first
// GET /api/v1/food-items/:id/reviews
func (ctrl *ReviewController) ListReviews(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.ListItemReviews(id)
	if err != nil {
		respondReviewError(c, err, "fetch reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// SubmitReview creates or replaces the caller's review
// PUT /api/v1/food-items/:id/reviews
func (ctrl *ReviewController) SubmitReview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid review")
		return
	}

	review, err := ctrl.reviewService.SubmitReview(userID, id, service.SubmitReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondReviewError(c, err, "submit review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review submitted successfully!",
		"review":  review,
	})
}

// DeleteMyReview removes the caller's review
// DELETE /api/v1/food-items/:id/reviews/me
func (ctrl *ReviewController) DeleteMyReview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteMyReview(userID, id); err != nil {
		respondReviewError(c, err, "delete review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted",
	})
}
