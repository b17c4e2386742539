package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/app/schedule"
	"github.com/ikkim/messreview-backend/internal/app/service"
	apperrors "github.com/ikkim/messreview-backend/internal/errors"
	"github.com/ikkim/messreview-backend/internal/middleware"
)

type MenuController struct {
	menuService service.MenuService
	clock       *schedule.Clock
}

func NewMenuController(menuService service.MenuService, clock *schedule.Clock) *MenuController {
	return &MenuController{
		menuService: menuService,
		clock:       clock,
	}
}

// GetMenu returns the aggregated menu, personalised when signed in
// GET /api/v1/menu?date=YYYY-MM-DD&meal_slot=lunch
func (ctrl *MenuController) GetMenu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := service.MenuQuery{
		Date:     c.Query("date"),
		MealSlot: model.MealSlot(c.Query("meal_slot")),
	}
	if userID, ok := middleware.GetUserID(c); ok {
		query.ViewerID = &userID
	}

	result, err := ctrl.menuService.GetMenu(c.Request.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate):
			apperrors.BadRequest(c, apperrors.MenuInvalidDate, "Date must be in YYYY-MM-DD format")
		case errors.Is(err, service.ErrInvalidMealSlot):
			apperrors.BadRequest(c, apperrors.FoodItemInvalidMealSlot, "Unknown meal slot")
		default:
			log.Error("Failed to load menu", err, map[string]interface{}{
				"date": query.Date,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.MenuFetchFailed, "Failed to load food items.")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSchedule returns today's serving timetable
// GET /api/v1/schedule
func (ctrl *MenuController) GetSchedule(c *gin.Context) {
	now := ctrl.clock.Now()

	var current *model.MealSlot
	if slot, ok := schedule.CurrentSlot(now); ok {
		current = &slot
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         now.Format(model.DateLayout),
		"day_type":     schedule.DayTypeOf(now),
		"current_slot": current,
		"timetable":    schedule.Timetable(now),
	})
}
