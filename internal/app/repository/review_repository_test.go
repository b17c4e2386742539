package repository

import (
	"context"
	"testing"

	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReviewRepository_UpsertKeepsOneReviewPerUser(t *testing.T) {
	testDB := setupRepositoryTest(t)
	itemRepo := NewFoodItemRepository(testDB)
	repo := NewReviewRepository(testDB)
	user := createTestUser(t, testDB, "asha@iitb.ac.in", "Asha")

	item := newFoodItem("Masala Dosa", model.MealSlotBreakfast, "2026-10-19", user.ID)
	require.NoError(t, itemRepo.Create(item))

	comment := "a bit soggy"
	first := &model.Review{FoodItemID: item.ID, UserID: user.ID, Rating: 2, Comment: &comment}
	require.NoError(t, repo.Upsert(first))
	assert.NotZero(t, first.ID)

	second := &model.Review{FoodItemID: item.ID, UserID: user.ID, Rating: 4}
	require.NoError(t, repo.Upsert(second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.Rating)
	assert.Nil(t, second.Comment)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 4, all[0].Rating)
}

func TestReviewRepository_FindByFoodItemID_WithAuthor(t *testing.T) {
	testDB := setupRepositoryTest(t)
	itemRepo := NewFoodItemRepository(testDB)
	repo := NewReviewRepository(testDB)
	asha := createTestUser(t, testDB, "asha@iitb.ac.in", "Asha")
	ravi := createTestUser(t, testDB, "ravi@iitb.ac.in", "Ravi")

	item := newFoodItem("Pav Bhaji", model.MealSlotDinner, "2026-10-19", asha.ID)
	other := newFoodItem("Kheer", model.MealSlotDinner, "2026-10-19", asha.ID)
	require.NoError(t, itemRepo.Create(item))
	require.NoError(t, itemRepo.Create(other))

	require.NoError(t, repo.Upsert(&model.Review{FoodItemID: item.ID, UserID: asha.ID, Rating: 5}))
	require.NoError(t, repo.Upsert(&model.Review{FoodItemID: item.ID, UserID: ravi.ID, Rating: 3}))
	require.NoError(t, repo.Upsert(&model.Review{FoodItemID: other.ID, UserID: ravi.ID, Rating: 1}))

	reviews, err := repo.FindByFoodItemID(item.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	names := []string{reviews[0].UserName, reviews[1].UserName}
	assert.ElementsMatch(t, []string{"Asha", "Ravi"}, names)

	scoped, err := repo.FindByFoodItemIDs(context.Background(), []uint{other.ID})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, 1, scoped[0].Rating)

	empty, err := repo.FindByFoodItemIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReviewRepository_Delete(t *testing.T) {
	testDB := setupRepositoryTest(t)
	itemRepo := NewFoodItemRepository(testDB)
	repo := NewReviewRepository(testDB)
	user := createTestUser(t, testDB, "asha@iitb.ac.in", "Asha")

	item := newFoodItem("Vada Pav", model.MealSlotEveningSnacks, "2026-10-19", user.ID)
	require.NoError(t, itemRepo.Create(item))
	require.NoError(t, repo.Upsert(&model.Review{FoodItemID: item.ID, UserID: user.ID, Rating: 5}))

	found, err := repo.FindByFoodItemAndUser(item.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Rating)

	require.NoError(t, repo.Delete(item.ID, user.ID))
	assert.ErrorIs(t, repo.Delete(item.ID, user.ID), gorm.ErrRecordNotFound)

	_, err = repo.FindByFoodItemAndUser(item.ID, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReviewRepository_RatingCheckConstraint(t *testing.T) {
	testDB := setupRepositoryTest(t)
	itemRepo := NewFoodItemRepository(testDB)
	repo := NewReviewRepository(testDB)
	user := createTestUser(t, testDB, "asha@iitb.ac.in", "Asha")

	item := newFoodItem("Jalebi", model.MealSlotEveningSnacks, "2026-10-19", user.ID)
	require.NoError(t, itemRepo.Create(item))

	assert.Error(t, repo.Upsert(&model.Review{FoodItemID: item.ID, UserID: user.ID, Rating: 6}))
}
