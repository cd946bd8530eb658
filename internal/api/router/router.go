package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"staffhub/config"
	"staffhub/internal/api/handler"
	"staffhub/internal/api/middleware"
	"staffhub/internal/dto"
	"staffhub/internal/model"
	"staffhub/pkg/jwt"
)

// Deps 路由依赖，Checker / Limiter 为 nil 时对应功能降级放行
type Deps struct {
	Config  *config.Config
	Handler *handler.Handler
	JWT     *jwt.Manager
	Checker middleware.TokenChecker
	Limiter middleware.RateLimiter
	DB      *gorm.DB
	Logger  *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	dto.RegisterValidators()

	cfg, h := d.Config, d.Handler
	staff := middleware.RoleAuth(model.RoleManager, model.RoleAdmin)
	admin := middleware.RoleAuth(model.RoleAdmin)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(d.DB))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			limit := cfg.Auth.LoginRateLimit
			auth.POST("/login", middleware.RateLimit(d.Limiter, limit.Limit, limit.Window), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(d.JWT, d.Checker))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 看板
			authorized.GET("/dashboard", h.Dashboard.GetDashboard)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", staff, h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)    // 工程师仅本人（Handler 层鉴权）
				users.PUT("/:id", h.User.UpdateUser) // admin 或本人（Service 层鉴权）
				users.POST("", admin, h.User.CreateUser)
				users.PUT("/:id/role", admin, h.User.AssignRole)
				users.DELETE("/:id", admin, h.User.DeleteUser)
			}

			// 客户模块
			clients := authorized.Group("/clients", staff)
			{
				clients.GET("", h.Client.ListClients)
				clients.GET("/:id", h.Client.GetClient)
				clients.POST("", h.Client.CreateClient)
				clients.PUT("/:id", h.Client.UpdateClient)
				clients.DELETE("/:id", admin, h.Client.DeleteClient)
			}

			// 项目模块
			projects := authorized.Group("/projects")
			{
				projects.GET("", h.Project.ListProjects)
				projects.GET("/:id", h.Project.GetProject)
				projects.POST("", staff, h.Project.CreateProject)
				projects.PUT("/:id", staff, h.Project.UpdateProject)
				projects.DELETE("/:id", staff, h.Project.DeleteProject)
			}

			// 项目分配模块
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("", h.Assignment.ListAssignments)
				assignments.GET("/:id", h.Assignment.GetAssignment)
				assignments.POST("", staff, h.Assignment.CreateAssignment)
				assignments.PUT("/:id", staff, h.Assignment.UpdateAssignment)
				assignments.DELETE("/:id", staff, h.Assignment.DeleteAssignment)
			}

			// 请假模块（归属校验在 Service 层）
			leaves := authorized.Group("/leaves")
			{
				leaves.GET("", h.Leave.ListLeaves)
				leaves.POST("", h.Leave.RecordLeave)
				leaves.POST("/validate", h.Leave.ValidateLeave)
				leaves.GET("/calendar.ics", h.Leave.ExportCalendar)
				leaves.POST("/import", h.Leave.ImportCalendar)
				leaves.GET("/:id", h.Leave.GetLeave)
				leaves.PUT("/:id", h.Leave.UpdateLeave)
				leaves.DELETE("/:id", h.Leave.DeleteLeave)
			}

			// 工时模块（归属校验在 Service 层）
			timeEntries := authorized.Group("/time-entries")
			{
				timeEntries.GET("", h.TimeEntry.ListTimeEntries)
				timeEntries.POST("", h.TimeEntry.RecordTimeEntry)
				timeEntries.POST("/validate", h.TimeEntry.ValidateTimeEntry)
				timeEntries.GET("/:id", h.TimeEntry.GetTimeEntry)
				timeEntries.PUT("/:id", h.TimeEntry.UpdateTimeEntry)
				timeEntries.DELETE("/:id", h.TimeEntry.DeleteTimeEntry)
			}

			// 导出模块，工程师仅能导出本人工时
			export := authorized.Group("/export")
			{
				export.GET("/timesheet", h.Export.ExportTimesheet)
			}
		}
	}

	return r
}

// healthCheck 数据库可达时返回 ok
func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
