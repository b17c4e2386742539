package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/app/service"
	apperrors "github.com/ikkim/messreview-backend/internal/errors"
	"github.com/ikkim/messreview-backend/internal/middleware"
)

const maxImportSize = 10 << 20

type FoodItemController struct {
	foodItemService service.FoodItemService
	importService   service.ImportService
}

func NewFoodItemController(foodItemService service.FoodItemService, importService service.ImportService) *FoodItemController {
	return &FoodItemController{
		foodItemService: foodItemService,
		importService:   importService,
	}
}

type AddFoodItemRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	MealSlot    model.MealSlot `json:"meal_slot" binding:"required"`
}

func respondFoodItemError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrFoodItemNotFound):
		apperrors.NotFound(c, apperrors.FoodItemNotFound, "Food item not found")
	case errors.Is(err, service.ErrFoodItemNameRequired):
		apperrors.BadRequest(c, apperrors.FoodItemNameRequired, "Please enter a food item name.")
	case errors.Is(err, service.ErrFoodItemNameTooLong):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Food item name is too long")
	case errors.Is(err, service.ErrInvalidMealSlot):
		apperrors.BadRequest(c, apperrors.FoodItemInvalidMealSlot, "Unknown meal slot")
	case errors.Is(err, service.ErrNotFoodItemOwner):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "Only the contributor can remove this item")
	default:
		middleware.GetLoggerFromContext(c).Error("Food item request failed", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// AddFoodItem adds an item to today's menu
// POST /api/v1/food-items
func (ctrl *FoodItemController) AddFoodItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddFoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.FoodItemNameRequired, "Please enter a food item name.")
		return
	}

	item, err := ctrl.foodItemService.AddFoodItem(userID, service.AddFoodItemInput{
		Name:        req.Name,
		Description: req.Description,
		MealSlot:    req.MealSlot,
	})
	if err != nil {
		respondFoodItemError(c, err, "add food item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Food item added successfully!",
		"food_item": item,
	})
}

// GetFoodItem returns one item
// GET /api/v1/food-items/:id
func (ctrl *FoodItemController) GetFoodItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := ctrl.foodItemService.GetFoodItem(id)
	if err != nil {
		respondFoodItemError(c, err, "fetch food item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"food_item": item,
	})
}

// DeleteFoodItem removes an item with its reviews
// DELETE /api/v1/food-items/:id
func (ctrl *FoodItemController) DeleteFoodItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.foodItemService.DeleteFoodItem(userID, role, id); err != nil {
		respondFoodItemError(c, err, "delete food item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Food item deleted",
	})
}

// ImportMenu bulk-loads a menu workbook
// POST /api/v1/food-items/import (multipart, field "file")
func (ctrl *FoodItemController) ImportMenu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Attach an .xlsx file in the \"file\" field")
		return
	}
	if fileHeader.Size > maxImportSize {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "File is larger than 10MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	result, err := ctrl.importService.ImportMenuXLSX(c.Request.Context(), data, userID)
	if err != nil {
		log.Warn("Menu import failed", map[string]interface{}{
			"filename": fileHeader.Filename,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Could not read the workbook")
		return
	}

	c.JSON(http.StatusOK, result)
}
