package app

import (
	"learnguard_backend/docs"
	"learnguard_backend/internal/config"
	"learnguard_backend/internal/middleware"
	"learnguard_backend/internal/model"

	"learnguard_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 学生/通用 授权接口
		a.registerStudentRoutes(authGroup, c)

		// 教师/管理员接口
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)

	// 课程与内容
	rg.GET("/courses", c.course.List)
	rg.GET("/courses/:id", c.course.Get)
	rg.GET("/courses/:id/contents", c.content.ListByCourse)
	rg.GET("/contents/:id", c.content.Get)

	// 学习会话
	rg.POST("/sessions", c.session.Start)
	rg.POST("/sessions/:id/end", c.session.End)

	// 进度
	rg.GET("/assignments", c.progress.Assignments)
	rg.POST("/progress", c.progress.Record)
	rg.GET("/progress/courses/:courseId", c.progress.Reconcile)
	rg.GET("/progress/courses/:courseId/completion", c.progress.Completion)

	// 报表
	rg.GET("/reports/courses/:courseId/score", c.report.LearningScore)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/")
	teacher.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		teacher.POST("/courses", c.course.Create)
		teacher.POST("/courses/:id/assignments", c.course.Assign)
		teacher.POST("/courses/:id/contents", c.content.Upload)
		teacher.PUT("/contents/:id", c.content.Update)

		// 完整性引擎
		teacher.GET("/integrity/sessions/:id", c.integrity.ScoreSession)
		teacher.GET("/integrity/users/:userId/contents/:contentId", c.integrity.ContentHistory)
		teacher.POST("/integrity/sweep", c.integrity.Sweep)

		// 批量校正与报表
		teacher.POST("/progress/courses/:courseId/reconcile", c.progress.ReconcileCourse)
		teacher.GET("/reports/courses/:courseId/kpi", c.report.CourseKPI)
		teacher.POST("/quiz-results", c.report.RecordQuizResult)
	}
}
