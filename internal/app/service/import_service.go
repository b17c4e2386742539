package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/app/repository"
	"github.com/ikkim/messreview-backend/internal/app/schedule"
	"github.com/ikkim/messreview-backend/internal/storage"
	"github.com/ikkim/messreview-backend/internal/websocket"
	"github.com/ikkim/messreview-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

const importBatchSize = 500

// ImportResult summarises a menu sheet import. Errors name the sheet row
// (1-based) of every skipped line.
type ImportResult struct {
	Imported  int      `json:"imported"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors,omitempty"`
	SourceURL string   `json:"source_url,omitempty"`
}

type ImportService interface {
	ImportMenuXLSX(ctx context.Context, data []byte, addedBy uint) (*ImportResult, error)
}

type importService struct {
	foodItemRepo repository.FoodItemRepository
	storage      storage.ObjectStorage
	clock        *schedule.Clock
	events       EventPublisher
}

// NewImportService builds the import service. When store is non-nil the
// uploaded workbook is archived alongside the import.
func NewImportService(
	foodItemRepo repository.FoodItemRepository,
	store storage.ObjectStorage,
	clock *schedule.Clock,
	events EventPublisher,
) ImportService {
	return &importService{
		foodItemRepo: foodItemRepo,
		storage:      store,
		clock:        clock,
		events:       publisherOrNoop(events),
	}
}

// ImportMenuXLSX reads `date | meal_slot | name | description` rows from the
// first sheet. A header row is detected and skipped; invalid rows are skipped
// and reported.
func (s *importService) ImportMenuXLSX(ctx context.Context, data []byte, addedBy uint) (*ImportResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	result := &ImportResult{}
	var items []model.FoodItem
	dates := make(map[string]bool)

	for i, row := range rows {
		if i == 0 && isImportHeader(row) {
			continue
		}
		if isBlankRow(row) {
			continue
		}

		item, err := s.parseRow(row, addedBy)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		items = append(items, *item)
		dates[item.DateServed] = true
	}

	if err := s.foodItemRepo.BulkCreate(items, importBatchSize); err != nil {
		return nil, err
	}
	result.Imported = len(items)

	if s.storage != nil {
		url, err := s.storage.Put(ctx, storage.UniqueKey("imports", ".xlsx"), reportContentType, data)
		if err != nil {
			logger.Warn("Failed to archive import source", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			result.SourceURL = url
		}
	}

	logger.Info("Menu sheet imported", map[string]interface{}{
		"user_id":  addedBy,
		"imported": result.Imported,
		"skipped":  result.Skipped,
	})

	served := make([]string, 0, len(dates))
	for d := range dates {
		served = append(served, d)
	}
	sort.Strings(served)
	for _, d := range served {
		s.events.Publish(websocket.Event{Type: websocket.EventFoodItemAdded, Date: d})
	}

	return result, nil
}

func (s *importService) parseRow(row []string, addedBy uint) (*model.FoodItem, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	date := cell(0)
	day, err := s.clock.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", date)
	}
	slot := normalizeMealSlot(cell(1))
	if !slot.Valid() {
		return nil, fmt.Errorf("invalid meal slot %q", cell(1))
	}
	name := cell(2)
	if name == "" {
		return nil, ErrFoodItemNameRequired
	}
	if len([]rune(name)) > maxFoodItemNameLength {
		return nil, ErrFoodItemNameTooLong
	}

	return &model.FoodItem{
		Name:          name,
		Description:   optionalText(cell(3)),
		MealSlot:      slot,
		DayType:       schedule.DayTypeOf(day),
		DateServed:    date,
		AddedByUserID: addedBy,
	}, nil
}

// normalizeMealSlot accepts both stored values and display labels, so
// "Evening Snacks" reads as evening_snacks.
func normalizeMealSlot(s string) model.MealSlot {
	s = strings.ToLower(strings.TrimSpace(s))
	return model.MealSlot(strings.ReplaceAll(s, " ", "_"))
}

func isImportHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "date")
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
