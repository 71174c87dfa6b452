package handlers

import (
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/echoverse/echoverse_backend/cmd/docs"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/middleware"
	"github.com/echoverse/echoverse_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", getHealth)

	// Identity resolution runs on everything under /api; individual routes
	// decide whether a login is required.
	api := r.Group("/api", middleware.SessionAuth(cfg, services))

	registerAuthRoutes(api, cfg, services)
	registerUserRoutes(api, cfg, services)
	registerOAuthRoutes(api, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// registerAuthRoutes sets up registration, login and the token workflows.
func registerAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services, cfg)
	th := NewTokenHandler(services)

	// Define rate limit: 10 requests per minute for credential endpoints
	rate, _ := limiter.NewRateFromFormatted("10-M")
	store := memory.NewStore()
	limitMiddleware := middleware.RateLimit(limiter.New(store, rate))

	rg.POST("/register", limitMiddleware, h.Register)
	rg.POST("/login", limitMiddleware, h.Login)
	rg.POST("/logout", h.Logout)

	rg.GET("/verify-email", th.VerifyEmail)
	rg.POST("/forgot-password", limitMiddleware, th.ForgotPassword)
	rg.POST("/reset-password", limitMiddleware, th.ResetPassword)
	rg.POST("/change-password", middleware.RequireAuth(), h.ChangePassword)

	rg.POST("/auth/token", middleware.RequireAuth(), h.IssueAPIToken)
}

// registerUserRoutes sets up the authenticated profile routes.
func registerUserRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	ah := NewAuthHandler(services, cfg)
	uh := NewUserHandler(services.User)

	user := rg.Group("/user", middleware.RequireAuth())
	user.GET("", ah.CurrentUser)
	user.PATCH("", uh.UpdateProfile)
	user.GET("/accounts", uh.ListLinkedAccounts)

	admin := rg.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.PATCH("/users/:id", uh.AdminUpdateUser)
}

// registerOAuthRoutes sets up the provider redirect flow.
func registerOAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	auth := NewAuthHandler(services, cfg)
	h := NewOAuthHandler(services, cfg, auth)

	rg.GET("/auth/:provider", h.Start)
	rg.GET("/auth/:provider/callback", h.Callback)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// registerCustomValidators wires the strongpassword rule into gin's binding
// validator. Idempotent to register twice.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("strongpassword", strongPassword)
	}
}

// strongPassword requires at least 8 characters with at least one letter and
// one digit.
func strongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
