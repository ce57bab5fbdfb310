package controller

import (
	"time"

	"learnguard_backend/internal/service"
	"learnguard_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type IntegrityController struct {
	IntegrityService *service.IntegrityService
}

func NewIntegrityController(integrityService *service.IntegrityService) *IntegrityController {
	return &IntegrityController{IntegrityService: integrityService}
}

type SweepRequest struct {
	CourseID  uint   `json:"course_id" binding:"required"`
	SinceDays int    `json:"since_days"`
	Since     string `json:"since"` // 可选，格式 2006-01-02，优先于 since_days
}

// @Summary 会话完整性评分
// @Description 计算单个会话的专注度与风险等级
// @Tags 完整性
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/integrity/sessions/{id} [get]
func (c *IntegrityController) ScoreSession(ctx *gin.Context) {
	analysis, err := c.IntegrityService.ScoreSession(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if err == util.ErrSessionNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, analysis)
}

// @Summary 内容参与度分析
// @Description 聚合学员在某个内容上的全部会话，给出整体专注度与风险
// @Tags 完整性
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "用户ID"
// @Param contentId path int true "内容ID"
// @Success 200 {object} util.Response
// @Router /api/integrity/users/{userId}/contents/{contentId} [get]
func (c *IntegrityController) ContentHistory(ctx *gin.Context) {
	engagement, err := c.IntegrityService.AnalyzeContentHistory(
		util.MustParseUint(ctx.Param("userId")),
		util.MustParseUint(ctx.Param("contentId")))
	if err != nil {
		if err == util.ErrContentNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, engagement)
}

// @Summary 课程完整性巡检
// @Description 批量评分课程内已结束的会话并标记可疑会话
// @Tags 完整性
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body SweepRequest true "巡检参数"
// @Success 200 {object} util.Response
// @Router /api/integrity/sweep [post]
func (c *IntegrityController) Sweep(ctx *gin.Context) {
	var req SweepRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.SinceDays <= 0 {
		req.SinceDays = 7
	}

	since := time.Now().AddDate(0, 0, -req.SinceDays)
	if req.Since != "" {
		parsed, err := time.Parse(util.DateFormat, req.Since)
		if err != nil {
			util.BadRequest(ctx, "since 日期格式应为 "+util.DateFormat)
			return
		}
		since = parsed
	}
	result, err := c.IntegrityService.SweepCourse(req.CourseID, since)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
