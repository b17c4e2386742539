package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/app/repository"
	"github.com/ikkim/messreview-backend/internal/app/schedule"
	"github.com/ikkim/messreview-backend/internal/app/service"
	"github.com/ikkim/messreview-backend/internal/db"
	"github.com/ikkim/messreview-backend/internal/middleware"
	"github.com/ikkim/messreview-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	util.BcryptCost = bcrypt.MinCost
	m.Run()
}

var ist = time.FixedZone("IST", 5*3600+1800)

type revocationSet map[string]bool

func (r revocationSet) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl > 0 {
		r[tokenID] = true
	}
	return nil
}

func (r revocationSet) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return r[tokenID], nil
}

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	auth   service.AuthService
}

// setupTestApp wires the API against an in-memory database with the clock
// fixed at 13:00 IST on Monday 2026-10-19.
func setupTestApp(t *testing.T) *testApp {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	clock := schedule.NewClock(ist, func() time.Time {
		return time.Date(2026, 10, 19, 13, 0, 0, 0, ist)
	})
	revoked := revocationSet{}

	userRepo := repository.NewUserRepository(testDB)
	foodItemRepo := repository.NewFoodItemRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)

	authService := service.NewAuthService(userRepo, revoked, testSecret, 15*time.Minute, time.Hour)
	menuService := service.NewMenuService(foodItemRepo, reviewRepo, userRepo, clock)
	foodItemService := service.NewFoodItemService(foodItemRepo, clock, nil)
	reviewService := service.NewReviewService(reviewRepo, foodItemRepo, nil)
	reportService := service.NewReportService(foodItemRepo, reviewRepo, userRepo, nil, clock)
	importService := service.NewImportService(foodItemRepo, nil, clock, nil)

	authCtrl := NewAuthController(authService)
	menuCtrl := NewMenuController(menuService, clock)
	foodItemCtrl := NewFoodItemController(foodItemService, importService)
	reviewCtrl := NewReviewController(reviewService)
	reportCtrl := NewReportController(reportService)

	authMW := middleware.NewAuthMiddleware(testSecret, revoked)

	r := gin.New()
	r.POST("/auth/register", authCtrl.Register)
	r.POST("/auth/login", authCtrl.Login)
	r.GET("/auth/me", authMW.Authenticate(), authCtrl.GetMe)
	r.POST("/auth/logout", authMW.Authenticate(), authCtrl.Logout)
	r.GET("/menu", authMW.OptionalAuthenticate(), menuCtrl.GetMenu)
	r.GET("/schedule", menuCtrl.GetSchedule)
	r.POST("/food-items", authMW.Authenticate(), foodItemCtrl.AddFoodItem)
	r.POST("/food-items/import", authMW.Authenticate(), authMW.RequireRole(model.RoleAdmin), foodItemCtrl.ImportMenu)
	r.GET("/food-items/:id", foodItemCtrl.GetFoodItem)
	r.DELETE("/food-items/:id", authMW.Authenticate(), foodItemCtrl.DeleteFoodItem)
	r.GET("/food-items/:id/reviews", reviewCtrl.ListReviews)
	r.PUT("/food-items/:id/reviews", authMW.Authenticate(), reviewCtrl.SubmitReview)
	r.DELETE("/food-items/:id/reviews/me", authMW.Authenticate(), reviewCtrl.DeleteMyReview)
	r.GET("/reports/daily", authMW.Authenticate(), authMW.RequireRole(model.RoleAdmin), reportCtrl.DailyReport)

	return &testApp{router: r, db: testDB, auth: authService}
}

// signUp registers a user and returns it with its access token.
func (a *testApp) signUp(t *testing.T, email, name string) (*model.User, string) {
	user, tokens, err := a.auth.Register(email, "password123", name)
	require.NoError(t, err)
	return user, tokens.AccessToken
}

func (a *testApp) signUpAdmin(t *testing.T) (*model.User, string) {
	user, _ := a.signUp(t, "warden@iitb.ac.in", "Warden")
	require.NoError(t, a.db.Model(user).Update("role", model.RoleAdmin).Error)
	_, tokens, err := a.auth.Login("warden@iitb.ac.in", "password123")
	require.NoError(t, err)
	return user, tokens.AccessToken
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	require.Equal(t, code, decode(t, w)["error"])
}

