package controller

import (
	"learnguard_backend/internal/service"
	"learnguard_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

type StartSessionRequest struct {
	ContentID uint `json:"content_id" binding:"required"`
}

// @Summary 开始学习会话
// @Tags 会话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body StartSessionRequest true "会话信息"
// @Success 201 {object} util.Response
// @Router /api/sessions [post]
func (c *SessionController) Start(ctx *gin.Context) {
	var req StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.SessionService.StartSession(claims.UserID, req.ContentID)
	if err != nil {
		if err == util.ErrContentNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, session)
}

// @Summary 结束学习会话
// @Description 上报播放遥测并结束会话
// @Tags 会话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "会话ID"
// @Param request body service.SessionEndRequest true "遥测数据"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/end [post]
func (c *SessionController) End(ctx *gin.Context) {
	var req service.SessionEndRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.SessionService.EndSession(claims.UserID, util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		switch err {
		case util.ErrSessionNotFound:
			util.NotFound(ctx)
		case util.ErrSessionAlreadyEnded:
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, session)
}
