package model

import "time"

// MealSlot categorizes a food item's serving period.
type MealSlot string

const (
	MealSlotBreakfast     MealSlot = "breakfast"
	MealSlotLunch         MealSlot = "lunch"
	MealSlotEveningSnacks MealSlot = "evening_snacks"
	MealSlotDinner        MealSlot = "dinner"
)

// MealSlots lists every slot in serving order.
var MealSlots = []MealSlot{
	MealSlotBreakfast,
	MealSlotLunch,
	MealSlotEveningSnacks,
	MealSlotDinner,
}

func (s MealSlot) Valid() bool {
	switch s {
	case MealSlotBreakfast, MealSlotLunch, MealSlotEveningSnacks, MealSlotDinner:
		return true
	}
	return false
}

// Label is the human-readable slot name.
func (s MealSlot) Label() string {
	switch s {
	case MealSlotBreakfast:
		return "Breakfast"
	case MealSlotLunch:
		return "Lunch"
	case MealSlotEveningSnacks:
		return "Evening Snacks"
	case MealSlotDinner:
		return "Dinner"
	}
	return string(s)
}

type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
)

// DateLayout is the format of FoodItem.DateServed.
const DateLayout = "2006-01-02"

type FoodItem struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `gorm:"not null" json:"name"`
	Description   *string   `gorm:"type:text" json:"description"`
	MealSlot      MealSlot  `gorm:"type:varchar(20);not null;index:idx_food_items_date_slot,priority:2" json:"meal_slot"`
	DayType       DayType   `gorm:"type:varchar(10);not null" json:"day_type"`
	DateServed    string    `gorm:"type:varchar(10);not null;index:idx_food_items_date_slot,priority:1" json:"date_served"`
	AddedByUserID uint      `gorm:"not null;index" json:"added_by_user_id"`
}

func (FoodItem) TableName() string {
	return "food_items"
}
