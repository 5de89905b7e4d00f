package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/oeh-wirtschaft/oeh-backend/internal/handler"
	"github.com/oeh-wirtschaft/oeh-backend/internal/metrics"
	"github.com/oeh-wirtschaft/oeh-backend/internal/middleware"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Operator     *handler.OperatorHandler
	Course       *handler.CourseHandler
	Verification *handler.VerificationHandler
	Code         *handler.CodeHandler
	News         *handler.NewsHandler
	Event        *handler.EventHandler
	Study        *handler.StudyHandler
	Setting      *handler.SettingHandler
	Contact      *handler.ContactHandler
	Dashboard    *handler.DashboardHandler
	WS           *handler.WSHandler
	System       *handler.SystemHandler
}

// Deps carries the shared collaborators of the middleware chain.
type Deps struct {
	Config  *config.Config
	Auth    *service.AuthService
	Metrics *metrics.Metrics
	Log     zerolog.Logger
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds the background cleanup of the in-memory rate limiters.
func SetupRouter(ctx context.Context, deps Deps, handlers *Handlers) *gin.Engine {
	cfg := deps.Config
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// Request ID first so the request logger and every envelope can use it.
	router.Use(response.RequestIDMiddleware(deps.Log))
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(gin.Recovery())
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Brotli())

	router.GET("/health", handlers.System.Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	codeLimiter := middleware.NewRateLimiter(20, time.Minute)
	contactLimiter := middleware.NewRateLimiter(5, time.Minute)
	for _, rl := range []*middleware.RateLimiter{loginLimiter, codeLimiter, contactLimiter} {
		go rl.RunCleanup(ctx)
	}

	authenticated := []gin.HandlerFunc{
		middleware.RequireOperatorJWT(deps.Auth),
		middleware.LoadOperator(deps.Auth),
		middleware.NoStore(),
	}
	perm := middleware.RequirePermission

	api := router.Group("/api/v1")

	// ─── 1. Auth ───────────────────────────────────────────────────────
	auth := api.Group("/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)

		me := auth.Group("", authenticated...)
		me.GET("/me", handlers.Auth.Me)
		me.POST("/change-password", handlers.Auth.ChangePassword)
		me.POST("/logout", handlers.Auth.Logout)
	}

	// ─── 2. Public ─────────────────────────────────────────────────────
	courses := api.Group("/courses")
	{
		courses.GET("", handlers.Course.ListCourses)
		courses.GET("/top", handlers.Course.TopCourses)
		courses.GET("/stats", middleware.CacheControl(60), handlers.Course.CourseStats)
		courses.GET("/:id", handlers.Course.GetCourse)
		courses.POST("/:id/request-code", codeLimiter.Middleware(), handlers.Verification.RequestCode)
		courses.POST("/verify-code", codeLimiter.Middleware(), handlers.Verification.VerifyCode)
		courses.POST("/submit-rating", codeLimiter.Middleware(), handlers.Verification.SubmitRating)
	}

	news := api.Group("/news")
	{
		news.GET("", handlers.News.ListPublished)
		news.GET("/:id", handlers.News.GetNews)

		authored := news.Group("", append(authenticated, perm(model.PermissionContentAuthor))...)
		authored.GET("/all", handlers.News.ListAll)
		authored.POST("", handlers.News.CreateNews)
		authored.PUT("/:id", handlers.News.UpdateNews)
		authored.DELETE("/:id", handlers.News.DeleteNews)
	}

	events := api.Group("/events")
	{
		events.GET("", handlers.Event.ListPublic)
		events.GET("/tags", middleware.CacheControl(300), handlers.Event.ListTags)
		events.GET("/:id", handlers.Event.GetEvent)
	}

	study := api.Group("/study", middleware.CacheControl(300))
	{
		study.GET("/categories", handlers.Study.ListCategories)
		study.GET("/programs", handlers.Study.ListPrograms)
		study.GET("/updates", handlers.Study.ListUpdates)
		study.GET("/updates/grouped", handlers.Study.GroupedUpdates)
	}

	api.POST("/contact", contactLimiter.Middleware(), handlers.Contact.Submit)

	// ─── 3. WebSocket (token query) ────────────────────────────────────
	ws := router.Group("/ws/v1", authenticated...)
	{
		ws.GET("/admin/activity", perm(model.PermissionDashboardRead), handlers.WS.ActivityStream)
	}

	// ─── 4. Admin (JWT + RBAC) ─────────────────────────────────────────
	adminAPI := api.Group("/admin", authenticated...)
	{
		// Dashboard
		adminAPI.GET("/stats", perm(model.PermissionDashboardRead), handlers.Dashboard.GetDashboardData)
		adminAPI.GET("/activity", perm(model.PermissionDashboardRead), handlers.Dashboard.GetActivity)
		adminAPI.GET("/system", perm(model.PermissionDashboardRead), handlers.System.RuntimeStats)

		// Operators; the service decides which fields a self-update may touch.
		operators := adminAPI.Group("/operators")
		{
			operators.GET("", perm(model.PermissionOperatorsRead), handlers.Operator.ListOperators)
			operators.GET("/:id", perm(model.PermissionOperatorsRead), handlers.Operator.GetOperator)
			operators.POST("", perm(model.PermissionOperatorsWrite), handlers.Operator.CreateOperator)
			operators.PUT("/:id", handlers.Operator.UpdateOperator)
			operators.DELETE("/:id", perm(model.PermissionOperatorsWrite), handlers.Operator.DeleteOperator)
		}

		// Courses
		adminCourses := adminAPI.Group("/courses", perm(model.PermissionCoursesWrite))
		{
			adminCourses.GET("", handlers.Course.AdminListCourses)
			adminCourses.POST("", handlers.Course.CreateCourse)
			adminCourses.POST("/import", handlers.Course.ImportCourses)
			adminCourses.PUT("/:id", handlers.Course.UpdateCourse)
			adminCourses.DELETE("/:id", handlers.Course.DeleteCourse)
		}

		// Admin-issued codes
		codes := adminAPI.Group("/codes", perm(model.PermissionCodesWrite))
		{
			codes.GET("", handlers.Code.ListCodes)
			codes.POST("", handlers.Code.CreateCode)
			codes.PUT("/:id", handlers.Code.UpdateCode)
			codes.DELETE("/:id", handlers.Code.DeleteCode)
		}

		// Events
		adminEvents := adminAPI.Group("/events", perm(model.PermissionContentAuthor))
		{
			adminEvents.GET("", handlers.Event.ListAll)
			adminEvents.POST("", handlers.Event.CreateEvent)
			adminEvents.PUT("/:id", handlers.Event.UpdateEvent)
			adminEvents.DELETE("/:id", handlers.Event.DeleteEvent)
		}

		// Study directory
		adminStudy := adminAPI.Group("/study", perm(model.PermissionStudyWrite))
		{
			adminStudy.GET("/categories", handlers.Study.AdminListCategories)
			adminStudy.POST("/categories", handlers.Study.CreateCategory)
			adminStudy.PUT("/categories/:id", handlers.Study.UpdateCategory)
			adminStudy.DELETE("/categories/:id", handlers.Study.DeleteCategory)

			adminStudy.GET("/programs", handlers.Study.AdminListPrograms)
			adminStudy.POST("/programs", handlers.Study.CreateProgram)
			adminStudy.PUT("/programs/:id", handlers.Study.UpdateProgram)
			adminStudy.DELETE("/programs/:id", handlers.Study.DeleteProgram)

			adminStudy.GET("/updates", handlers.Study.AdminListUpdates)
			adminStudy.POST("/updates", handlers.Study.CreateUpdate)
			adminStudy.PUT("/updates/:id", handlers.Study.UpdateUpdate)
			adminStudy.DELETE("/updates/:id", handlers.Study.DeleteUpdate)
		}

		// App settings
		settings := adminAPI.Group("/settings")
		{
			settings.GET("", perm(model.PermissionSettingsRead), handlers.Setting.GetAllSettings)
			settings.GET("/:key", perm(model.PermissionSettingsRead), handlers.Setting.GetSetting)
			settings.PUT("/:key", perm(model.PermissionSettingsWrite), handlers.Setting.UpdateSetting)
		}
	}

	return router
}
