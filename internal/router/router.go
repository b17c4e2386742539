package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/messreview-backend/config"
	"github.com/ikkim/messreview-backend/internal/app/controller"
	"github.com/ikkim/messreview-backend/internal/app/model"
	"github.com/ikkim/messreview-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	menuController     *controller.MenuController
	foodItemController *controller.FoodItemController
	reviewController   *controller.ReviewController
	reportController   *controller.ReportController
	eventController    *controller.EventController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	menuController *controller.MenuController,
	foodItemController *controller.FoodItemController,
	reviewController *controller.ReviewController,
	reportController *controller.ReportController,
	eventController *controller.EventController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		menuController:     menuController,
		foodItemController: foodItemController,
		reviewController:   reviewController,
		reportController:   reportController,
		eventController:    eventController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Mess Review API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		v1.GET("/menu", r.authMiddleware.OptionalAuthenticate(), r.menuController.GetMenu)
		v1.GET("/schedule", r.menuController.GetSchedule)

		foodItems := v1.Group("/food-items")
		{
			foodItems.POST("", r.authMiddleware.Authenticate(), r.foodItemController.AddFoodItem)
			foodItems.POST("/import",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleAdmin),
				r.foodItemController.ImportMenu,
			)
			foodItems.GET("/:id", r.foodItemController.GetFoodItem)
			foodItems.DELETE("/:id", r.authMiddleware.Authenticate(), r.foodItemController.DeleteFoodItem)

			foodItems.GET("/:id/reviews", r.reviewController.ListReviews)
			foodItems.PUT("/:id/reviews", r.authMiddleware.Authenticate(), r.reviewController.SubmitReview)
			foodItems.DELETE("/:id/reviews/me", r.authMiddleware.Authenticate(), r.reviewController.DeleteMyReview)
		}

		reports := v1.Group("/reports")
		reports.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			reports.GET("/daily", r.reportController.DailyReport)
		}

		v1.GET("/ws", r.authMiddleware.OptionalAuthenticate(), r.eventController.Stream)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
