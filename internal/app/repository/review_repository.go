package repository

import (
	"context"

	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewWithAuthor is a review joined with its author's display name.
type ReviewWithAuthor struct {
	model.Review
	UserName string `json:"user_name"`
}

type ReviewRepository interface {
	Upsert(review *model.Review) error
	FindAll(ctx context.Context) ([]model.Review, error)
	FindByFoodItemIDs(ctx context.Context, ids []uint) ([]model.Review, error)
	FindByFoodItemID(foodItemID uint) ([]ReviewWithAuthor, error)
	FindByFoodItemAndUser(foodItemID, userID uint) (*model.Review, error)
	Delete(foodItemID, userID uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Upsert inserts the review or, when the user already reviewed the item,
// overwrites rating and comment. review is reloaded with the stored row.
func (r *reviewRepository) Upsert(review *model.Review) error {
	logger.Debug("Upserting review", map[string]interface{}{
		"food_item_id": review.FoodItemID,
		"user_id":      review.UserID,
		"rating":       review.Rating,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "food_item_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(review).Error
	if err != nil {
		logger.Error("Failed to upsert review", err, map[string]interface{}{
			"food_item_id": review.FoodItemID,
			"user_id":      review.UserID,
		})
		return err
	}

	var stored model.Review
	err = r.db.
		Where("food_item_id = ? AND user_id = ?", review.FoodItemID, review.UserID).
		First(&stored).Error
	if err != nil {
		return err
	}
	*review = stored
	return nil
}

func (r *reviewRepository) FindAll(ctx context.Context) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.WithContext(ctx).Find(&reviews).Error; err != nil {
		logger.Error("Failed to list reviews", err)
		return nil, err
	}
	return reviews, nil
}

// FindByFoodItemIDs narrows the review fetch to a known item set.
func (r *reviewRepository) FindByFoodItemIDs(ctx context.Context, ids []uint) ([]model.Review, error) {
	var reviews []model.Review
	if len(ids) == 0 {
		return reviews, nil
	}
	if err := r.db.WithContext(ctx).Where("food_item_id IN ?", ids).Find(&reviews).Error; err != nil {
		logger.Error("Failed to list reviews for food items", err, map[string]interface{}{
			"food_item_count": len(ids),
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByFoodItemID(foodItemID uint) ([]ReviewWithAuthor, error) {
	var reviews []ReviewWithAuthor
	err := r.db.Model(&model.Review{}).
		Select("reviews.*, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.food_item_id = ?", foodItemID).
		Order("reviews.updated_at DESC").
		Scan(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByFoodItemAndUser(foodItemID, userID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("food_item_id = ? AND user_id = ?", foodItemID, userID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Delete(foodItemID, userID uint) error {
	result := r.db.Where("food_item_id = ? AND user_id = ?", foodItemID, userID).Delete(&model.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
