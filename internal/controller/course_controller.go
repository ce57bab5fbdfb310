package controller

import (
	"time"

	"learnguard_backend/internal/model"
	"learnguard_backend/internal/repository"
	"learnguard_backend/internal/service"
	"learnguard_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseRepo      *repository.CourseRepository
	ProgressService *service.ProgressService
}

func NewCourseController(courseRepo *repository.CourseRepository, progressService *service.ProgressService) *CourseController {
	return &CourseController{CourseRepo: courseRepo, ProgressService: progressService}
}

type CreateCourseRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Kind        model.CourseKind `json:"kind" binding:"required,oneof=traditional online"`
}

type AssignCourseRequest struct {
	UserID   uint       `json:"user_id" binding:"required"`
	Deadline *time.Time `json:"deadline"`
}

// @Summary 创建课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body CreateCourseRequest true "课程信息"
// @Success 201 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		TeacherID:   claims.UserID,
	}
	if err := c.CourseRepo.Create(course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// @Summary 课程列表
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	page := int(util.MustParseUint(ctx.DefaultQuery("page", "1")))
	limit := int(util.MustParseUint(ctx.DefaultQuery("limit", "20")))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	courses, total, err := c.CourseRepo.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 课程详情
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	course, err := c.CourseRepo.FindByID(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, course)
}

// @Summary 分配课程
// @Description 将课程分配给指定学员，可设置截止时间
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param request body AssignCourseRequest true "分配信息"
// @Success 201 {object} util.Response
// @Router /api/courses/{id}/assignments [post]
func (c *CourseController) Assign(ctx *gin.Context) {
	var req AssignCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	courseID := util.MustParseUint(ctx.Param("id"))
	assignment, err := c.ProgressService.AssignCourse(req.UserID, courseID, req.Deadline)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, assignment)
}
