package service

import (
	"fmt"
	"io"
	"learnguard_backend/internal/config"
	"learnguard_backend/internal/model"
	"learnguard_backend/internal/repository"
	"learnguard_backend/internal/util"
	"learnguard_backend/pkg/logger"
	"mime/multipart"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ContentService struct {
	ContentRepo    *repository.ContentRepository
	CourseRepo     *repository.CourseRepository
	StorageService *StorageService
	Cfg            *config.Config
}

func NewContentService(contentRepo *repository.ContentRepository, courseRepo *repository.CourseRepository, storageService *StorageService, cfg *config.Config) *ContentService {
	return &ContentService{
		ContentRepo:    contentRepo,
		CourseRepo:     courseRepo,
		StorageService: storageService,
		Cfg:            cfg,
	}
}

// UploadContent 上传课程内容。视频在上传时用 ffmpeg 探测时长，
// 写入 expected_duration_seconds，作为完整性评分的预期时长来源。
func (s *ContentService) UploadContent(c *gin.Context, file *multipart.FileHeader, item *model.ContentItem) error {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return util.ErrUnauthorized
	}
	item.UploaderID = claims.UserID

	if _, err := s.CourseRepo.FindByID(item.CourseID); err != nil {
		return util.ErrCourseNotFound
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	// 先按扩展名粗筛
	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowedExts := util.AllowedVideoExtensions
	if item.Type == model.ContentDocument {
		allowedExts = util.AllowedDocumentExtensions
	}
	if !slices.Contains(allowedExts, ext) {
		return fmt.Errorf("不支持的文件扩展名: %s", ext)
	}

	// 深度验证 MIME 类型。Office 文档常被探测为 zip/octet-stream，一并放行
	allowedTypes := []string{util.MimeVideo, util.MimePDF, util.MimeOctetStream, "text/plain", "application/zip", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
	mimeType, err := util.ValidateMimeType(src, allowedTypes)
	if err != nil {
		return fmt.Errorf("非法的文件内容: %v", err)
	}
	// 重置读取指针
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	filename := "contents/" + time.Now().Format("20060102150405") + "_" + util.GenerateRandomString(6) + ext

	// 视频先落临时文件探测时长，再交给存储后端
	if item.Type == model.ContentVideo && util.IsVideo(mimeType) {
		tmpPath := filepath.Join(os.TempDir(), filepath.Base(filename))
		if err := saveToFile(src, tmpPath); err != nil {
			return err
		}
		defer os.Remove(tmpPath)

		if info, err := util.GetVideoInfo(tmpPath); err != nil {
			// 探测失败不阻断上传，预期时长保持未知
			logger.Log.Warn("video probe failed, expected duration unknown",
				zap.String("file", file.Filename), zap.Error(err))
		} else if info.Duration > 0 {
			item.ExpectedDurationSeconds = &info.Duration
		}

		tmp, err := os.Open(tmpPath)
		if err != nil {
			return err
		}
		defer tmp.Close()

		url, err := s.StorageService.Upload(c, filename, tmp, file.Size, file.Header.Get("Content-Type"))
		if err != nil {
			return err
		}
		item.URL = url
	} else {
		url, err := s.StorageService.Upload(c, filename, src, file.Size, file.Header.Get("Content-Type"))
		if err != nil {
			return err
		}
		item.URL = url
	}

	item.Size = file.Size
	return s.ContentRepo.Create(item)
}

// ContentMetaUpdate 可修正的内容元数据。PageCount 影响文档的预期阅读时长估算
type ContentMetaUpdate struct {
	Title      string `json:"title"`
	PageCount  *int   `json:"pageCount"`
	IsRequired *bool  `json:"isRequired"`
	Order      *int   `json:"order"`
}

// UpdateContentMeta 修正内容元数据（标题、页数、必修标记、排序）
func (s *ContentService) UpdateContentMeta(id uint, update ContentMetaUpdate) (*model.ContentItem, error) {
	item, err := s.ContentRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrContentNotFound
	}

	if update.Title != "" {
		item.Title = update.Title
	}
	if update.PageCount != nil {
		item.PageCount = update.PageCount
	}
	if update.IsRequired != nil {
		item.IsRequired = *update.IsRequired
	}
	if update.Order != nil {
		item.Order = *update.Order
	}

	if err := s.ContentRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ContentService) GetCourseContents(courseID uint) ([]model.ContentItem, error) {
	return s.ContentRepo.FindByCourse(courseID)
}

func (s *ContentService) GetContent(id uint) (*model.ContentItem, error) {
	item, err := s.ContentRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrContentNotFound
	}
	return item, nil
}

func saveToFile(src io.Reader, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
