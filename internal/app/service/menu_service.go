package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/messreview-backend/internal/app/menu"
	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/app/repository"
	"github.com/ikkim/messreview-backend/internal/app/schedule"
	"github.com/ikkim/messreview-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
	ErrInvalidMealSlot = errors.New("invalid meal slot")
)

// MenuQuery selects a day's menu. Empty Date means today; empty MealSlot
// means every slot.
type MenuQuery struct {
	Date     string
	ViewerID *uint
	MealSlot model.MealSlot
}

// Menu is one day's aggregated menu with its serving timetable.
type Menu struct {
	Date        string                `json:"date"`
	DayType     model.DayType         `json:"day_type"`
	CurrentSlot *model.MealSlot       `json:"current_slot"`
	Timetable   []schedule.SlotTiming `json:"timetable"`
	Items       []menu.ItemView       `json:"items"`
}

type MenuService interface {
	GetMenu(ctx context.Context, query MenuQuery) (*Menu, error)
}

type menuService struct {
	foodItemRepo repository.FoodItemRepository
	reviewRepo   repository.ReviewRepository
	userRepo     repository.UserRepository
	clock        *schedule.Clock
}

func NewMenuService(
	foodItemRepo repository.FoodItemRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	clock *schedule.Clock,
) MenuService {
	return &menuService{
		foodItemRepo: foodItemRepo,
		reviewRepo:   reviewRepo,
		userRepo:     userRepo,
		clock:        clock,
	}
}

// GetMenu fetches items, reviews and profiles concurrently and aggregates
// them once all three have arrived. Any fetch failure fails the whole call.
func (s *menuService) GetMenu(ctx context.Context, query MenuQuery) (*Menu, error) {
	today := s.clock.Today()
	date := query.Date
	if date == "" {
		date = today
	}
	day, err := s.clock.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if query.MealSlot != "" && !query.MealSlot.Valid() {
		return nil, ErrInvalidMealSlot
	}

	var (
		items    []model.FoodItem
		reviews  []model.Review
		profiles []model.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.foodItemRepo.FindByDate(gctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = s.reviewRepo.FindAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		profiles, err = s.userRepo.ListProfiles(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("Failed to fetch menu data", err, map[string]interface{}{
			"date": date,
		})
		return nil, fmt.Errorf("fetch menu: %w", err)
	}

	views := menu.Aggregate(items, reviews, profiles, query.ViewerID)
	if query.MealSlot != "" {
		views = menu.FilterByMealSlot(views, query.MealSlot)
	}

	result := &Menu{
		Date:    date,
		DayType: schedule.DayTypeOf(day),
		Items:   views,
	}

	if date == today {
		now := s.clock.Now()
		if slot, ok := schedule.CurrentSlot(now); ok {
			result.CurrentSlot = &slot
		}
		result.Timetable = schedule.Timetable(now)
	} else {
		result.Timetable = schedule.Timetable(day)
		for i := range result.Timetable {
			result.Timetable[i].Current = false
		}
	}

	logger.Debug("Menu aggregated", map[string]interface{}{
		"date":      date,
		"meal_slot": query.MealSlot,
		"items":     len(views),
	})
	return result, nil
}
