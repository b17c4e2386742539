package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is one user's rating of one food item. The unique index makes
// (food item, user) the natural key; writes are upserts.
type Review struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	FoodItemID uint      `gorm:"not null;uniqueIndex:idx_reviews_item_user" json:"food_item_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_reviews_item_user;index" json:"user_id"`
	Rating     int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment    *string   `gorm:"type:text" json:"comment"`
}

func (Review) TableName() string {
	return "reviews"
}

// ValidRating reports whether r is a selectable star value.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
