package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/codewithmk180105/attendance-portal/internal/app"
	iauth "github.com/codewithmk180105/attendance-portal/internal/auth"
	"github.com/codewithmk180105/attendance-portal/internal/cache"
	"github.com/codewithmk180105/attendance-portal/internal/handlers"
	"github.com/codewithmk180105/attendance-portal/internal/middleware"
	"github.com/codewithmk180105/attendance-portal/internal/models"
	"github.com/codewithmk180105/attendance-portal/internal/services"
	"github.com/codewithmk180105/attendance-portal/internal/uploads"
	"github.com/codewithmk180105/attendance-portal/pkg/mail"
)

// Dependencies carries the shared infrastructure the router wires into
// handlers.
type Dependencies struct {
	DB        *gorm.DB
	JWT       *iauth.JWTService
	Config    *app.Config
	Mailer    mail.Mailer
	RateStore cache.Store
	Uploads   uploads.Store
}

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.JWT == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	classService, err := services.NewClassService(deps.DB)
	if err != nil {
		return nil, err
	}
	registrationService, err := services.NewRegistrationService(deps.DB, classService, deps.Mailer, deps.Config.Email.SMTP.From)
	if err != nil {
		return nil, err
	}
	verificationService, err := services.NewVerificationService(deps.DB)
	if err != nil {
		return nil, err
	}
	authService, err := services.NewAuthService(deps.DB)
	if err != nil {
		return nil, err
	}
	userService, err := services.NewUserService(deps.DB)
	if err != nil {
		return nil, err
	}
	requestService, err := services.NewRequestService(deps.DB)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	r.NoRoute(middleware.NotFoundHandler)

	// Health endpoint (public)
	r.GET("/healthz", handlers.Health(deps.DB))

	if deps.Config.Monitoring.Prometheus.Enabled {
		r.GET(deps.Config.Monitoring.Prometheus.Endpoint, gin.WrapH(promhttp.Handler()))
	}

	// Uploaded files are public by URL only
	if local, ok := deps.Uploads.(*uploads.LocalStore); ok && local != nil {
		r.Static("/uploads", local.Dir())
	}

	cookie := handlers.CookieSettings{
		Name:   deps.Config.Auth.Cookie.Name,
		Secure: deps.Config.Auth.Cookie.Secure,
	}
	authHandler := handlers.NewAuthHandler(authService, userService, deps.JWT, cookie)
	registrationHandler := handlers.NewRegistrationHandler(registrationService, verificationService)
	classHandler := handlers.NewClassHandler(classService, userService)
	requestHandler := handlers.NewRequestHandler(requestService, userService, deps.Uploads)
	profileHandler := handlers.NewProfileHandler(userService, deps.Uploads)

	// Credential endpoints carry a tighter limit than the rest of the API
	authLimit := middleware.RateLimit(deps.RateStore, 20, time.Minute)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/sign-up", authLimit, registrationHandler.SignUp)
		auth.POST("/sign-in", authLimit, authHandler.SignIn)
		auth.POST("/verify", authLimit, registrationHandler.Verify)
	}

	// Join-code resolution happens before an account exists
	r.GET("/api/classes/resolve", classHandler.Resolve)

	requireAuth := middleware.Auth(deps.JWT)

	api := r.Group("/api")
	api.Use(requireAuth)
	api.Use(middleware.RateLimit(deps.RateStore, 100, time.Minute))

	api.GET("/auth/me", authHandler.Me)
	api.POST("/auth/logout", authHandler.Logout)

	api.GET("/profile", profileHandler.Get)
	api.PUT("/profile", profileHandler.Update)

	api.GET("/classes/professors", classHandler.ListProfessors)

	requests := api.Group("/requests")
	{
		requests.POST("", middleware.RequireRole(models.RoleStudent), requestHandler.Submit)
		requests.GET("", middleware.RequireRole(models.RoleHOD), requestHandler.List)
		requests.GET("/professor", middleware.RequireRole(models.RoleProfessor), requestHandler.ListForProfessor)
		requests.GET("/student", middleware.RequireRole(models.RoleStudent), requestHandler.ListForStudent)
		requests.GET("/:id", requestHandler.Get)
		requests.PATCH("/:id/status", middleware.RequireRole(models.RoleHOD), requestHandler.UpdateStatus)
		requests.POST("/:id/grant", middleware.RequireRole(models.RoleProfessor), requestHandler.Grant)
	}

	return r, nil
}
