package service

import (
	"learnguard_backend/internal/model"
	"learnguard_backend/internal/repository"
	"learnguard_backend/internal/util"
	"learnguard_backend/pkg/logger"
	"learnguard_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

// ProgressService 进度对账的取数与编排层。
// 对账结论只做读取时校正，从不回写到 course_assignments；
// 指派状态仅由心跳路径推进。
type ProgressService struct {
	ContentRepo    *repository.ContentRepository
	ProgressRepo   *repository.ProgressRepository
	AssignmentRepo *repository.AssignmentRepository
	SessionRepo    *repository.SessionRepository
}

func NewProgressService(
	contentRepo *repository.ContentRepository,
	progressRepo *repository.ProgressRepository,
	assignmentRepo *repository.AssignmentRepository,
	sessionRepo *repository.SessionRepository,
) *ProgressService {
	return &ProgressService{
		ContentRepo:    contentRepo,
		ProgressRepo:   progressRepo,
		AssignmentRepo: assignmentRepo,
		SessionRepo:    sessionRepo,
	}
}

// ProgressRequest 客户端进度心跳
type ProgressRequest struct {
	ContentID            uint    `json:"contentId" binding:"required"`
	CompletionPercentage float64 `json:"completionPercentage" binding:"gte=0,lte=100"`
	IsCompleted          bool    `json:"isCompleted"`
}

// RecordProgress 落一条进度心跳。百分比可能被后来更差的会话覆盖，
// 对账时按三信号 OR 判定完成，不依赖这里的单一快照。
func (s *ProgressService) RecordProgress(userID uint, req ProgressRequest) error {
	content, err := s.ContentRepo.FindByID(req.ContentID)
	if err != nil {
		return util.ErrContentNotFound
	}

	// 完成标记只进不退：上报过完成后，更差的心跳不清掉这一信号
	isCompleted := req.IsCompleted
	if existing, err := s.ProgressRepo.FindByUserAndContent(userID, req.ContentID); err == nil && existing.IsCompleted {
		isCompleted = true
	}

	if err := s.ProgressRepo.Upsert(&model.ContentProgress{
		UserID:               userID,
		ContentID:            req.ContentID,
		CourseID:             content.CourseID,
		CompletionPercentage: req.CompletionPercentage,
		IsCompleted:          isCompleted,
	}); err != nil {
		return err
	}

	return s.refreshAssignmentStatus(userID, content.CourseID)
}

// refreshAssignmentStatus 心跳落库后推进指派状态。写入的 ProgressPercentage
// 只是当时的快照，之后仍会失真（会话直传不走这里），读取路径始终走对账校验。
func (s *ProgressService) refreshAssignmentStatus(userID, courseID uint) error {
	assignment, err := s.AssignmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		// 未被指派课程的自学记录，不维护指派状态
		return nil
	}
	if assignment.Status == model.AssignmentCompleted {
		return nil
	}

	decision, err := s.ShouldComplete(userID, courseID)
	if err != nil {
		return err
	}

	now := time.Now()
	if assignment.StartedAt == nil {
		assignment.StartedAt = &now
	}
	assignment.Status = model.AssignmentInProgress
	if decision.TotalCount > 0 {
		assignment.ProgressPercentage = float64(decision.CompletedCount) / float64(decision.TotalCount) * 100
	}
	if decision.ShouldComplete {
		assignment.Status = model.AssignmentCompleted
		assignment.CompletedAt = &now
		assignment.ProgressPercentage = 100
	}
	return s.AssignmentRepo.Update(assignment)
}

// ListAssignments 当前用户的全部课程指派
func (s *ProgressService) ListAssignments(userID uint) ([]model.CourseAssignment, error) {
	return s.AssignmentRepo.FindByUser(userID)
}

// collectCompletionSignals 取 (用户, 课程) 的全部完成信号快照
func (s *ProgressService) collectCompletionSignals(userID, courseID uint) ([]model.ContentItem, map[uint]*model.ContentProgress, map[uint]float64, error) {
	items, err := s.ContentRepo.FindByCourse(courseID)
	if err != nil {
		return nil, nil, nil, err
	}

	progressRows, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, nil, nil, err
	}
	progressByContent := make(map[uint]*model.ContentProgress, len(progressRows))
	for i := range progressRows {
		progressByContent[progressRows[i].ContentID] = &progressRows[i]
	}

	sessions, err := s.SessionRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, nil, nil, err
	}
	grouped := GroupSessionsByContent(sessions)
	sessionMaxByContent := make(map[uint]float64, len(grouped))
	for contentID, group := range grouped {
		sessionMaxByContent[contentID] = MaxSessionCompletion(group)
	}

	return items, progressByContent, sessionMaxByContent, nil
}

// ReconcileProgress 独立重算真实进度并校验存量值；失真时返回实算值做读取时校正
func (s *ProgressService) ReconcileProgress(userID, courseID uint) (*model.ProgressReconciliation, error) {
	assignment, err := s.AssignmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, util.ErrAssignmentNotFound
	}

	items, progressByContent, sessionMaxByContent, err := s.collectCompletionSignals(userID, courseID)
	if err != nil {
		return nil, err
	}

	rec := ReconcileSnapshot(&ProgressSnapshot{
		Assignment:          assignment,
		Items:               items,
		ProgressByContent:   progressByContent,
		SessionMaxByContent: sessionMaxByContent,
	})

	if !rec.IsValid {
		monitoring.ProgressCorrected.Inc()
		logger.Log.Info("stored progress overridden at read time",
			zap.Uint("userId", userID),
			zap.Uint("courseId", courseID),
			zap.Float64("stored", assignment.ProgressPercentage),
			zap.Float64("reconciled", rec.ProgressPercent),
			zap.String("detail", rec.Detail))
	}

	return &rec, nil
}

// ShouldComplete 完成判定：全部必修内容按三信号 OR 规则完成即可结课
func (s *ProgressService) ShouldComplete(userID, courseID uint) (*model.CompletionDecision, error) {
	items, progressByContent, sessionMaxByContent, err := s.collectCompletionSignals(userID, courseID)
	if err != nil {
		return nil, err
	}

	completed, total, _ := ComputeActualProgress(&ProgressSnapshot{
		Items:               items,
		ProgressByContent:   progressByContent,
		SessionMaxByContent: sessionMaxByContent,
	})

	return &model.CompletionDecision{
		ShouldComplete: total > 0 && completed == total,
		CompletedCount: completed,
		TotalCount:     total,
	}, nil
}

// ReconcileCourse 批量对账整个课程的指派，汇总平均进度与被校正的条数。
// 单个坏指派不终止批次，跳过并记日志。
func (s *ProgressService) ReconcileCourse(courseID uint) (*model.BulkReconciliation, error) {
	assignments, err := s.AssignmentRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}

	bulk := &model.BulkReconciliation{CourseID: courseID}
	sum := 0.0

	for i := range assignments {
		a := &assignments[i]
		rec, err := s.ReconcileProgress(a.UserID, courseID)
		if err != nil {
			logger.Log.Error("bulk reconciliation unit failed",
				zap.Uint("userId", a.UserID),
				zap.Uint("courseId", courseID),
				zap.Error(err))
			continue
		}

		bulk.AssignmentCount++
		sum += rec.ProgressPercent
		if !rec.IsValid {
			bulk.CorrectedCount++
		}
	}

	if bulk.AssignmentCount > 0 {
		bulk.AverageProgress = sum / float64(bulk.AssignmentCount)
	}
	return bulk, nil
}

// AssignCourse 建立课程指派
func (s *ProgressService) AssignCourse(userID, courseID uint, deadline *time.Time) (*model.CourseAssignment, error) {
	if existing, err := s.AssignmentRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return existing, nil
	}

	assignment := &model.CourseAssignment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     model.AssignmentAssigned,
		AssignedAt: time.Now(),
		Deadline:   deadline,
	}
	if err := s.AssignmentRepo.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}
