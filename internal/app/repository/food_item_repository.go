package repository

import (
	"context"

	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/pkg/logger"
	"gorm.io/gorm"
)

type FoodItemRepository interface {
	Create(item *model.FoodItem) error
	BulkCreate(items []model.FoodItem, batchSize int) error
	FindByID(id uint) (*model.FoodItem, error)
	FindByDate(ctx context.Context, date string) ([]model.FoodItem, error)
	Delete(id uint) error
}

type foodItemRepository struct {
	db *gorm.DB
}

func NewFoodItemRepository(db *gorm.DB) FoodItemRepository {
	return &foodItemRepository{db: db}
}

func (r *foodItemRepository) Create(item *model.FoodItem) error {
	logger.Debug("Creating food item in database", map[string]interface{}{
		"name":        item.Name,
		"meal_slot":   item.MealSlot,
		"date_served": item.DateServed,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create food item in database", err, map[string]interface{}{
			"name":      item.Name,
			"meal_slot": item.MealSlot,
		})
		return err
	}
	return nil
}

func (r *foodItemRepository) BulkCreate(items []model.FoodItem, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(items, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create food items", err, map[string]interface{}{
			"count": len(items),
		})
		return err
	}
	return nil
}

func (r *foodItemRepository) FindByID(id uint) (*model.FoodItem, error) {
	var item model.FoodItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByDate lists the items served on date, newest first.
func (r *foodItemRepository) FindByDate(ctx context.Context, date string) ([]model.FoodItem, error) {
	var items []model.FoodItem
	err := r.db.WithContext(ctx).
		Where("date_served = ?", date).
		Order("created_at DESC").
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find food items by date", err, map[string]interface{}{
			"date_served": date,
		})
		return nil, err
	}
	return items, nil
}

func (r *foodItemRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("food_item_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.FoodItem{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
