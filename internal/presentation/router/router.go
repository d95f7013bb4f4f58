package router

import (
	"os"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	echotrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"

	"github.com/coursehub/coursehub-api/internal/auth"
	appcontext "github.com/coursehub/coursehub-api/internal/common/context"
	"github.com/coursehub/coursehub-api/internal/presentation/interface-adapter/handler"
	"github.com/coursehub/coursehub-api/internal/presentation/middleware"
)

// Setup configures all routes with Datadog tracing
func Setup(logger *logrus.Logger, repoLocator *appcontext.RepoLocator, tokens *auth.TokenService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echotrace.Middleware(echotrace.WithServiceName(os.Getenv("DD_SERVICE"))))
	e.Use(middleware.EchoRecoveryMiddleware())
	e.Use(middleware.EchoCORSMiddleware())
	e.Use(middleware.EchoLoggerMiddleware(logger))
	e.Use(middleware.EchoRepoLocatorMiddleware(repoLocator))

	healthHandler := handler.NewHealthHandler()
	authHandler := handler.NewAuthHandler()
	courseHandler := handler.NewCourseHandler()
	checkoutHandler := handler.NewCheckoutHandler()

	requireAuth := middleware.EchoAuthMiddleware(tokens)

	// Health endpoints
	e.GET("/", healthHandler.HealthCheck)
	e.GET("/health", healthHandler.HealthCheck)

	// Auth endpoints
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/auth/me", authHandler.Me, requireAuth)

	// Catalog endpoints
	e.GET("/api/courses", courseHandler.ListCourses)
	e.GET("/api/courses/featured", courseHandler.FeaturedCourses)
	e.GET("/api/courses/:slug", courseHandler.GetCourse)
	e.POST("/api/courses", courseHandler.CreateCourse, requireAuth)
	e.PUT("/api/courses/:id", courseHandler.UpdateCourse, requireAuth)
	e.GET("/api/categories", courseHandler.ListCategories)

	// Enrollment and progress endpoints
	e.POST("/api/courses/:id/enroll", courseHandler.Enroll, requireAuth)
	e.GET("/api/courses/:id/reviews", courseHandler.ListReviews)
	e.POST("/api/courses/:id/reviews", courseHandler.CreateReview, requireAuth)
	e.POST("/api/lessons/:id/complete", courseHandler.CompleteLesson, requireAuth)

	// Checkout endpoints
	e.POST("/api/checkout/quote", checkoutHandler.GetQuote)

	return e
}
