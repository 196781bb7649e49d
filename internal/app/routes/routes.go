package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/assigntrack/internal/app/controllers"
	"github.com/yigit/assigntrack/internal/app/models"
	"github.com/yigit/assigntrack/internal/app/models/dto"
	"github.com/yigit/assigntrack/internal/middleware"
)

// Controllers bundles the handlers mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	Course     *controllers.CourseController
	Assignment *controllers.AssignmentController
	Group      *controllers.GroupController
	Submission *controllers.SubmissionController
	Dashboard  *controllers.DashboardController
	Realtime   *controllers.RealtimeController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl *Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	lecturerOnly := authMiddleware.RoleRequired(models.RoleLecturer)
	studentOnly := authMiddleware.RoleRequired(models.RoleStudent)

	authenticated.GET("/auth/me", ctrl.Auth.Me)

	courses := authenticated.Group("/courses")
	{
		courses.GET("", ctrl.Course.ListCourses)
		courses.GET("/:id", ctrl.Course.GetCourse)
		courses.POST("", lecturerOnly, ctrl.Course.CreateCourse)
	}

	assignments := authenticated.Group("/assignments")
	{
		assignments.GET("", ctrl.Assignment.ListAssignments)
		assignments.GET("/:id", ctrl.Assignment.GetAssignment)
		assignments.GET("/:id/groups", ctrl.Group.ListGroups)
		assignments.GET("/:id/status", ctrl.Submission.GetStatus)

		// Student routes
		assignments.POST("/:id/submissions", studentOnly, ctrl.Submission.Submit)

		// Owner routes; ownership itself is checked by the services
		owner := assignments.Group("")
		owner.Use(lecturerOnly)
		{
			owner.POST("", ctrl.Assignment.CreateAssignment)
			owner.PUT("/:id", ctrl.Assignment.UpdateAssignment)
			owner.DELETE("/:id", ctrl.Assignment.DeleteAssignment)
			owner.POST("/:id/attachment", ctrl.Assignment.UploadAttachment)
			owner.GET("/:id/submissions", ctrl.Submission.ListSubmissions)
			owner.GET("/:id/review", ctrl.Assignment.Review)
			owner.GET("/:id/groups/overview", ctrl.Assignment.GroupsOverview)
		}
	}

	authenticated.POST("/groups/:id/join", studentOnly, ctrl.Group.JoinGroup)

	dashboard := authenticated.Group("/dashboard")
	{
		dashboard.GET("/student", studentOnly, ctrl.Dashboard.Student)
		dashboard.GET("/instructor", lecturerOnly, ctrl.Dashboard.Instructor)
	}

	// Websocket clients pass the token as ?token=
	authenticated.GET("/ws/assignments/:id", ctrl.Realtime.Subscribe)

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})
}
