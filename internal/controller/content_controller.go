package controller

import (
	"learnguard_backend/internal/model"
	"learnguard_backend/internal/service"
	"learnguard_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// @Summary 上传课程内容
// @Description 上传视频或文档，视频自动探测时长
// @Tags 内容
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param file formData file true "文件"
// @Param title formData string true "标题"
// @Param type formData string true "类型 video|document"
// @Success 201 {object} util.Response
// @Router /api/courses/{id}/contents [post]
func (c *ContentController) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少文件")
		return
	}

	contentType := model.ContentType(ctx.PostForm("type"))
	if contentType != model.ContentVideo && contentType != model.ContentDocument {
		util.BadRequest(ctx, "类型必须为 video 或 document")
		return
	}

	item := &model.ContentItem{
		CourseID:   util.MustParseUint(ctx.Param("id")),
		Title:      ctx.PostForm("title"),
		Type:       contentType,
		IsRequired: ctx.DefaultPostForm("required", "true") == "true",
		Order:      int(util.MustParseUint(ctx.DefaultPostForm("order", "0"))),
	}
	if item.Title == "" {
		util.BadRequest(ctx, "缺少标题")
		return
	}
	if pages := util.MustParseUint(ctx.PostForm("pages")); pages > 0 {
		p := int(pages)
		item.PageCount = &p
	}

	if err := c.ContentService.UploadContent(ctx, file, item); err != nil {
		switch err {
		case util.ErrUnauthorized:
			util.Unauthorized(ctx)
		case util.ErrCourseNotFound:
			util.NotFound(ctx)
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, item)
}

// @Summary 课程内容列表
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/contents [get]
func (c *ContentController) ListByCourse(ctx *gin.Context) {
	items, err := c.ContentService.GetCourseContents(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// @Summary 修正内容元数据
// @Description 修正标题、页数、必修标记或排序，页数影响文档预期阅读时长
// @Tags 内容
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "内容ID"
// @Param data body service.ContentMetaUpdate true "元数据"
// @Success 200 {object} util.Response
// @Router /api/contents/{id} [put]
func (c *ContentController) Update(ctx *gin.Context) {
	var req service.ContentMetaUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.ContentService.UpdateContentMeta(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if err == util.ErrContentNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

// @Summary 内容详情
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "内容ID"
// @Success 200 {object} util.Response
// @Router /api/contents/{id} [get]
func (c *ContentController) Get(ctx *gin.Context) {
	item, err := c.ContentService.GetContent(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, item)
}
