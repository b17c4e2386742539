package service

import (
	"errors"
	"strings"

	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/app/repository"
	"github.com/ikkim/messreview-backend/internal/app/schedule"
	"github.com/ikkim/messreview-backend/internal/websocket"
	"github.com/ikkim/messreview-backend/pkg/logger"
	"gorm.io/gorm"
)

const maxFoodItemNameLength = 100

var (
	ErrFoodItemNotFound     = errors.New("food item not found")
	ErrFoodItemNameRequired = errors.New("food item name is required")
	ErrFoodItemNameTooLong  = errors.New("food item name is too long")
	ErrNotFoodItemOwner     = errors.New("only the contributor or an admin can remove this item")
)

type AddFoodItemInput struct {
	Name        string
	Description string
	MealSlot    model.MealSlot
}

type FoodItemService interface {
	AddFoodItem(userID uint, input AddFoodItemInput) (*model.FoodItem, error)
	GetFoodItem(id uint) (*model.FoodItem, error)
	DeleteFoodItem(userID uint, role model.UserRole, id uint) error
}

type foodItemService struct {
	foodItemRepo repository.FoodItemRepository
	clock        *schedule.Clock
	events       EventPublisher
}

func NewFoodItemService(
	foodItemRepo repository.FoodItemRepository,
	clock *schedule.Clock,
	events EventPublisher,
) FoodItemService {
	return &foodItemService{
		foodItemRepo: foodItemRepo,
		clock:        clock,
		events:       publisherOrNoop(events),
	}
}

// AddFoodItem records an item served today. The serving date and day type
// come from the institution clock, never from the client.
func (s *foodItemService) AddFoodItem(userID uint, input AddFoodItemInput) (*model.FoodItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrFoodItemNameRequired
	}
	if len([]rune(name)) > maxFoodItemNameLength {
		return nil, ErrFoodItemNameTooLong
	}
	if !input.MealSlot.Valid() {
		return nil, ErrInvalidMealSlot
	}

	now := s.clock.Now()
	item := &model.FoodItem{
		Name:          name,
		Description:   optionalText(input.Description),
		MealSlot:      input.MealSlot,
		DayType:       schedule.DayTypeOf(now),
		DateServed:    now.Format(model.DateLayout),
		AddedByUserID: userID,
	}
	if err := s.foodItemRepo.Create(item); err != nil {
		return nil, err
	}

	logger.Info("Food item added", map[string]interface{}{
		"food_item_id": item.ID,
		"user_id":      userID,
		"meal_slot":    item.MealSlot,
		"date_served":  item.DateServed,
	})

	s.events.Publish(websocket.Event{
		Type:       websocket.EventFoodItemAdded,
		Date:       item.DateServed,
		MealSlot:   item.MealSlot,
		FoodItemID: item.ID,
	})
	return item, nil
}

func (s *foodItemService) GetFoodItem(id uint) (*model.FoodItem, error) {
	item, err := s.foodItemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// DeleteFoodItem removes an item and its reviews.
func (s *foodItemService) DeleteFoodItem(userID uint, role model.UserRole, id uint) error {
	item, err := s.GetFoodItem(id)
	if err != nil {
		return err
	}
	if item.AddedByUserID != userID && role != model.RoleAdmin {
		logger.Warn("Food item delete denied", map[string]interface{}{
			"food_item_id": id,
			"user_id":      userID,
		})
		return ErrNotFoodItemOwner
	}

	if err := s.foodItemRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFoodItemNotFound
		}
		return err
	}

	logger.Info("Food item deleted", map[string]interface{}{
		"food_item_id": id,
		"user_id":      userID,
	})
	s.events.Publish(websocket.Event{
		Type:       websocket.EventFoodItemDeleted,
		Date:       item.DateServed,
		MealSlot:   item.MealSlot,
		FoodItemID: item.ID,
	})
	return nil
}

// optionalText trims s and maps the empty string to nil.
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
