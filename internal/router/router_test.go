package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/messreview-backend/config"
	"github.com/ikkim/messreview-backend/internal/app/controller"
	"github.com/ikkim/messreview-backend/internal/app/repository"
	"github.com/ikkim/messreview-backend/internal/app/schedule"
	"github.com/ikkim/messreview-backend/internal/app/service"
	"github.com/ikkim/messreview-backend/internal/db"
	"github.com/ikkim/messreview-backend/internal/middleware"
	"github.com/ikkim/messreview-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouterTest(t *testing.T) *gin.Engine {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
	clock := schedule.NewClock(time.UTC, nil)
	hub := websocket.NewHub()

	userRepo := repository.NewUserRepository(testDB)
	foodItemRepo := repository.NewFoodItemRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)

	r := NewRouter(
		controller.NewAuthController(service.NewAuthService(userRepo, nil, "secret", time.Minute, time.Hour)),
		controller.NewMenuController(service.NewMenuService(foodItemRepo, reviewRepo, userRepo, clock), clock),
		controller.NewFoodItemController(
			service.NewFoodItemService(foodItemRepo, clock, hub),
			service.NewImportService(foodItemRepo, nil, clock, hub),
		),
		controller.NewReviewController(service.NewReviewService(reviewRepo, foodItemRepo, hub)),
		controller.NewReportController(service.NewReportService(foodItemRepo, reviewRepo, userRepo, nil, clock)),
		controller.NewEventController(hub, cfg.CORS.AllowedOrigins),
		middleware.NewAuthMiddleware("secret", nil),
		cfg,
	)
	return r.Setup()
}

func TestRouter_Routes(t *testing.T) {
	engine := setupRouterTest(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/menu", http.StatusOK},
		{http.MethodGet, "/api/v1/schedule", http.StatusOK},
		{http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/food-items", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/food-items/1", http.StatusNotFound},
		{http.MethodGet, "/api/v1/food-items/1/reviews", http.StatusNotFound},
		{http.MethodGet, "/api/v1/reports/daily", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	engine := setupRouterTest(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/menu", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
