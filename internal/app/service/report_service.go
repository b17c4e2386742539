package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ikkim/messreview-backend/internal/app/menu"
	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/app/repository"
	"github.com/ikkim/messreview-backend/internal/app/schedule"
	"github.com/ikkim/messreview-backend/internal/storage"
	"github.com/ikkim/messreview-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const (
	reportSheet       = "Daily Report"
	reportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrStorageNotConfigured = errors.New("object storage is not configured")

var reportHeader = []interface{}{"Date", "Meal Slot", "Item", "Added By", "Avg Rating", "Reviews"}

type ReportService interface {
	BuildDailyReport(ctx context.Context, date string) ([]byte, error)
	Archive(ctx context.Context, date string) (string, error)
}

type reportService struct {
	foodItemRepo repository.FoodItemRepository
	reviewRepo   repository.ReviewRepository
	userRepo     repository.UserRepository
	storage      storage.ObjectStorage
	clock        *schedule.Clock
}

// NewReportService builds the report service. store may be nil; Archive then
// fails with ErrStorageNotConfigured.
func NewReportService(
	foodItemRepo repository.FoodItemRepository,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	store storage.ObjectStorage,
	clock *schedule.Clock,
) ReportService {
	return &reportService{
		foodItemRepo: foodItemRepo,
		reviewRepo:   reviewRepo,
		userRepo:     userRepo,
		storage:      store,
		clock:        clock,
	}
}

// BuildDailyReport renders one row per item served on date, grouped in
// serving order. Empty date means today.
func (s *reportService) BuildDailyReport(ctx context.Context, date string) ([]byte, error) {
	if date == "" {
		date = s.clock.Today()
	}
	if _, err := s.clock.ParseDate(date); err != nil {
		return nil, ErrInvalidDate
	}

	items, err := s.foodItemRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	reviews, err := s.reviewRepo.FindByFoodItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	profiles, err := s.userRepo.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	groups := menu.GroupByMealSlot(menu.Aggregate(items, reviews, profiles, nil))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return nil, fmt.Errorf("failed to name report sheet: %w", err)
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeader); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		f.SetCellStyle(reportSheet, "A1", "F1", style)
	}

	row := 2
	for _, slot := range model.MealSlots {
		for _, view := range groups[slot] {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, err
			}
			values := []interface{}{date, slot.Label(), view.Name, contributorName(view), roundedRating(view.AvgRating), view.ReviewCount}
			if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
				return nil, fmt.Errorf("failed to write report row: %w", err)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	logger.Debug("Daily report built", map[string]interface{}{
		"date":  date,
		"items": len(items),
	})
	return buf.Bytes(), nil
}

// Archive uploads the day's report and returns its URL.
func (s *reportService) Archive(ctx context.Context, date string) (string, error) {
	if s.storage == nil {
		return "", ErrStorageNotConfigured
	}
	if date == "" {
		date = s.clock.Today()
	}

	data, err := s.BuildDailyReport(ctx, date)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("reports/%s.xlsx", date)
	url, err := s.storage.Put(ctx, key, reportContentType, data)
	if err != nil {
		logger.Error("Failed to archive daily report", err, map[string]interface{}{
			"date": date,
		})
		return "", err
	}

	logger.Info("Daily report archived", map[string]interface{}{
		"date": date,
		"url":  url,
	})
	return url, nil
}

func contributorName(view menu.ItemView) string {
	if view.AddedBy == nil {
		return ""
	}
	return view.AddedBy.Name
}

// roundedRating returns the average to one decimal, or "" when unrated.
func roundedRating(avg *float64) interface{} {
	if avg == nil {
		return ""
	}
	return math.Round(*avg*10) / 10
}
