package controller

import (
	"learnguard_backend/internal/service"
	"learnguard_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 上报学习进度
// @Tags 进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.ProgressRequest true "进度信息"
// @Success 200 {object} util.Response
// @Router /api/progress [post]
func (c *ProgressController) Record(ctx *gin.Context) {
	var req service.ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ProgressService.RecordProgress(claims.UserID, req); err != nil {
		if err == util.ErrContentNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 我的课程指派
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/assignments [get]
func (c *ProgressController) Assignments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	assignments, err := c.ProgressService.ListAssignments(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// @Summary 进度校正
// @Description 读取时校验存储进度并按需返回重算值，不回写
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/progress/courses/{courseId} [get]
func (c *ProgressController) Reconcile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rec, err := c.ProgressService.ReconcileProgress(claims.UserID, util.MustParseUint(ctx.Param("courseId")))
	if err != nil {
		if err == util.ErrAssignmentNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rec)
}

// @Summary 结课判定
// @Description 三路信号任一达标即判定可结课
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/progress/courses/{courseId}/completion [get]
func (c *ProgressController) Completion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	decision, err := c.ProgressService.ShouldComplete(claims.UserID, util.MustParseUint(ctx.Param("courseId")))
	if err != nil {
		if err == util.ErrAssignmentNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, decision)
}

// @Summary 课程批量进度校正
// @Description 对课程全部学员执行进度校正并汇总
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/progress/courses/{courseId}/reconcile [post]
func (c *ProgressController) ReconcileCourse(ctx *gin.Context) {
	result, err := c.ProgressService.ReconcileCourse(util.MustParseUint(ctx.Param("courseId")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
