// Package menu derives the per-item view of a day's menu from independently
// fetched food items, reviews and profiles. Everything here is pure: callers
// fetch a snapshot, then aggregate it.
package menu

import "github.com/ikkim/messreview-backend/internal/app/model"

// Contributor is the display name of the user who added an item.
type Contributor struct {
	Name string `json:"name"`
}

// OwnReview is the viewer's own review of an item.
type OwnReview struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

// ItemView is a food item enriched with its review statistics.
type ItemView struct {
	model.FoodItem
	AddedBy     *Contributor `json:"added_by"`
	AvgRating   *float64     `json:"avg_rating"`
	ReviewCount int          `json:"review_count"`
	UserReview  *OwnReview   `json:"user_review,omitempty"`
}

// Aggregate merges items, reviews and profiles into one ItemView per item, in
// the order of items. viewerID may be nil for anonymous viewers. Reviews that
// reference no item in items are ignored.
func Aggregate(items []model.FoodItem, reviews []model.Review, profiles []model.Profile, viewerID *uint) []ItemView {
	byItem := make(map[uint][]model.Review, len(items))
	for _, r := range reviews {
		byItem[r.FoodItemID] = append(byItem[r.FoodItemID], r)
	}

	names := make(map[uint]string, len(profiles))
	for _, p := range profiles {
		if _, seen := names[p.UserID]; !seen {
			names[p.UserID] = p.Name
		}
	}

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		itemReviews := byItem[item.ID]

		view := ItemView{
			FoodItem:    item,
			AvgRating:   averageRating(itemReviews),
			ReviewCount: len(itemReviews),
		}
		if name, ok := names[item.AddedByUserID]; ok {
			view.AddedBy = &Contributor{Name: name}
		}
		if viewerID != nil {
			view.UserReview = ownReview(itemReviews, *viewerID)
		}
		views = append(views, view)
	}
	return views
}

func averageRating(reviews []model.Review) *float64 {
	if len(reviews) == 0 {
		return nil
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return &avg
}

// ownReview returns the viewer's review only when there is exactly one.
func ownReview(reviews []model.Review, viewerID uint) *OwnReview {
	var found *model.Review
	for i := range reviews {
		if reviews[i].UserID != viewerID {
			continue
		}
		if found != nil {
			return nil
		}
		found = &reviews[i]
	}
	if found == nil {
		return nil
	}
	return &OwnReview{Rating: found.Rating, Comment: found.Comment}
}

// FilterByMealSlot returns the views served in slot, preserving order.
func FilterByMealSlot(views []ItemView, slot model.MealSlot) []ItemView {
	filtered := make([]ItemView, 0, len(views))
	for _, v := range views {
		if v.MealSlot == slot {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// GroupByMealSlot splits views into one ordered list per slot. Every slot has
// a key, empty slots map to an empty list.
func GroupByMealSlot(views []ItemView) map[model.MealSlot][]ItemView {
	groups := make(map[model.MealSlot][]ItemView, len(model.MealSlots))
	for _, slot := range model.MealSlots {
		groups[slot] = FilterByMealSlot(views, slot)
	}
	return groups
}
