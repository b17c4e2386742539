package service

import (
	"errors"

	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/app/repository"
	"github.com/ikkim/messreview-backend/internal/websocket"
	"github.com/ikkim/messreview-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrReviewNotFound = errors.New("review not found")
)

type SubmitReviewInput struct {
	Rating  int
	Comment string
}

type ReviewService interface {
	SubmitReview(userID, foodItemID uint, input SubmitReviewInput) (*model.Review, error)
	ListItemReviews(foodItemID uint) ([]repository.ReviewWithAuthor, error)
	DeleteMyReview(userID, foodItemID uint) error
}

type reviewService struct {
	reviewRepo   repository.ReviewRepository
	foodItemRepo repository.FoodItemRepository
	events       EventPublisher
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	foodItemRepo repository.FoodItemRepository,
	events EventPublisher,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		foodItemRepo: foodItemRepo,
		events:       publisherOrNoop(events),
	}
}

// SubmitReview creates the user's review of an item or replaces it. A rating
// of 0 means nothing was selected and is rejected like any out-of-range value.
func (s *reviewService) SubmitReview(userID, foodItemID uint, input SubmitReviewInput) (*model.Review, error) {
	if !model.ValidRating(input.Rating) {
		return nil, ErrInvalidRating
	}

	item, err := s.foodItemRepo.FindByID(foodItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodItemNotFound
		}
		return nil, err
	}

	review := &model.Review{
		FoodItemID: item.ID,
		UserID:     userID,
		Rating:     input.Rating,
		Comment:    optionalText(input.Comment),
	}
	if err := s.reviewRepo.Upsert(review); err != nil {
		return nil, err
	}

	logger.Info("Review submitted", map[string]interface{}{
		"review_id":    review.ID,
		"food_item_id": item.ID,
		"user_id":      userID,
		"rating":       review.Rating,
	})

	s.events.Publish(websocket.Event{
		Type:       websocket.EventReviewSubmitted,
		Date:       item.DateServed,
		MealSlot:   item.MealSlot,
		FoodItemID: item.ID,
	})
	return review, nil
}

func (s *reviewService) ListItemReviews(foodItemID uint) ([]repository.ReviewWithAuthor, error) {
	if _, err := s.foodItemRepo.FindByID(foodItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodItemNotFound
		}
		return nil, err
	}
	return s.reviewRepo.FindByFoodItemID(foodItemID)
}

func (s *reviewService) DeleteMyReview(userID, foodItemID uint) error {
	item, err := s.foodItemRepo.FindByID(foodItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFoodItemNotFound
		}
		return err
	}

	if err := s.reviewRepo.Delete(foodItemID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"food_item_id": foodItemID,
		"user_id":      userID,
	})
	s.events.Publish(websocket.Event{
		Type:       websocket.EventReviewDeleted,
		Date:       item.DateServed,
		MealSlot:   item.MealSlot,
		FoodItemID: item.ID,
	})
	return nil
}
