package controller

import (
	"time"

	"learnguard_backend/internal/model"
	"learnguard_backend/internal/repository"
	"learnguard_backend/internal/service"
	"learnguard_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
	CourseRepo    *repository.CourseRepository
}

func NewReportController(reportService *service.ReportService, courseRepo *repository.CourseRepository) *ReportController {
	return &ReportController{ReportService: reportService, CourseRepo: courseRepo}
}

type QuizResultRequest struct {
	UserID   uint    `json:"user_id" binding:"required"`
	CourseID uint    `json:"course_id" binding:"required"`
	Score    float64 `json:"score" binding:"gte=0,lte=100"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
}

// @Summary 录入测验结果
// @Description 外部测验评分服务回写得分
// @Tags 报表
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body QuizResultRequest true "测验结果"
// @Success 201 {object} util.Response
// @Router /api/quiz-results [post]
func (c *ReportController) RecordQuizResult(ctx *gin.Context) {
	var req QuizResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result := &model.QuizResult{
		UserID:   req.UserID,
		CourseID: req.CourseID,
		Score:    req.Score,
		Total:    req.Total,
		Correct:  req.Correct,
	}
	if err := c.ReportService.RecordQuizResult(result); err != nil {
		if err == util.ErrInvalidQuizScore {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// @Summary 学习分
// @Description 按课程类型合成学员的学习分、等级与合规状态
// @Tags 报表
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/reports/courses/{courseId}/score [get]
func (c *ReportController) LearningScore(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.Param("courseId"))
	course, err := c.CourseRepo.FindByID(courseID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	userID := claims.UserID
	// 教师可查看指定学员
	if claims.Role != model.Student {
		if q := util.MustParseUint(ctx.Query("user_id")); q > 0 {
			userID = q
		}
	}

	score, err := c.ReportService.ComposeLearningScore(ctx.Request.Context(), userID, courseID, course.Kind)
	if err != nil {
		if err == util.ErrAssignmentNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, score)
}

// @Summary 课程KPI报表
// @Description 课程全部学员的进度、学习分与风险汇总
// @Tags 报表
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/reports/courses/{courseId}/kpi [get]
func (c *ReportController) CourseKPI(ctx *gin.Context) {
	rows, err := c.ReportService.CourseKPIReport(ctx.Request.Context(), util.MustParseUint(ctx.Param("courseId")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"generatedAt": time.Now().Format(util.TimeFormat),
		"rows":        rows,
	})
}
