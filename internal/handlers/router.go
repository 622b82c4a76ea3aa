package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nilevalley-edu/fileshare-service/internal/auth"
	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/services"
	"github.com/nilevalley-edu/fileshare-service/internal/utils"
	"github.com/nilevalley-edu/fileshare-service/internal/validator"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	whitelistHandler  *WhitelistHandler
	fileHandler       *FileHandler
	supervisorHandler *SupervisorHandler
	dashboardHandler  *DashboardHandler
	authMiddleware    *SessionAuthMiddleware
	serviceManager    services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	sessions auth.SessionStore,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), validator, logger),
		whitelistHandler:  NewWhitelistHandler(serviceManager.Whitelist(), validator, logger),
		fileHandler:       NewFileHandler(serviceManager.File(), validator, logger),
		supervisorHandler: NewSupervisorHandler(serviceManager.UserAdmin(), serviceManager.Export(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:    NewSessionAuthMiddleware(sessions),
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")

	// Public routes: login and the two signup flows
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/login", hm.authHandler.Login)
		authRoutes.POST("/signup/student", hm.authHandler.SignupStudent)
		authRoutes.POST("/signup/teacher", hm.authHandler.SignupTeacher)
	}

	// Everything else requires a session
	secured := v1.Group("")
	secured.Use(hm.authMiddleware.AuthMiddleware())
	{
		secured.POST("/auth/logout", hm.authHandler.Logout)
		secured.GET("/auth/me", hm.authHandler.Me)

		// Shared files - every authenticated role can browse and download
		files := secured.Group("/files")
		{
			files.GET("", hm.fileHandler.List)
			files.GET("/:id/download", hm.fileHandler.Download)

			// Uploading and deleting is for teachers and supervisors
			files.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleSupervisor), hm.fileHandler.Upload)
			files.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleSupervisor), hm.fileHandler.Delete)
		}

		// Semester results - published by supervisors, visible to all
		results := secured.Group("/results")
		{
			results.GET("", hm.fileHandler.ListResults)
			results.GET("/:id/download", hm.fileHandler.DownloadResult)

			results.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleSupervisor), hm.fileHandler.UploadResult)
			results.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleSupervisor), hm.fileHandler.DeleteResult)
		}

		// Semester list for filter dropdowns
		secured.GET("/semesters", hm.dashboardHandler.GetSemesters)

		// Supervisor-only administration
		admin := secured.Group("")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleSupervisor))
		{
			whitelist := admin.Group("/whitelist")
			{
				whitelist.POST("/students", hm.whitelistHandler.AddStudents)
				whitelist.GET("/students", hm.whitelistHandler.ListStudents)
				whitelist.POST("/teachers", hm.whitelistHandler.AddTeachers)
				whitelist.GET("/teachers", hm.whitelistHandler.ListTeachers)
			}

			users := admin.Group("/users")
			{
				users.GET("/students", hm.supervisorHandler.ListStudents)
				users.GET("/teachers", hm.supervisorHandler.ListTeachers)
				users.DELETE("/:id", hm.supervisorHandler.DeleteUser)
			}

			exports := admin.Group("/exports")
			{
				exports.GET("/users", hm.supervisorHandler.ExportUsers)
				exports.GET("/whitelist", hm.supervisorHandler.ExportWhitelist)
			}

			admin.GET("/dashboard/counts", hm.dashboardHandler.GetCounts)
			admin.GET("/audit", hm.supervisorHandler.GetAuditLog)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "fileshare-service",
	})
}
