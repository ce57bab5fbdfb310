package service

import (
	"context"
	"learnguard_backend/internal/model"
	"learnguard_backend/internal/repository"
	"learnguard_backend/internal/util"
	"learnguard_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// ReportService 学习分合成与 KPI 汇总。
// 输出为纯结构化数据，序列化（JSON/CSV 行）由调用方完成。
type ReportService struct {
	CourseRepo      *repository.CourseRepository
	AssignmentRepo  *repository.AssignmentRepository
	SessionRepo     *repository.SessionRepository
	QuizRepo        *repository.QuizRepository
	ProgressService *ProgressService
	Integrity       *IntegrityService
}

func NewReportService(
	courseRepo *repository.CourseRepository,
	assignmentRepo *repository.AssignmentRepository,
	sessionRepo *repository.SessionRepository,
	quizRepo *repository.QuizRepository,
	progressService *ProgressService,
	integrity *IntegrityService,
) *ReportService {
	return &ReportService{
		CourseRepo:      courseRepo,
		AssignmentRepo:  assignmentRepo,
		SessionRepo:     sessionRepo,
		QuizRepo:        quizRepo,
		ProgressService: progressService,
		Integrity:       integrity,
	}
}

// CourseKPIRow 课程 KPI 报表行
type CourseKPIRow struct {
	UserID          uint                 `json:"userId"`
	LearningScore   model.LearningScore  `json:"learningScore"`
	ProgressPercent float64              `json:"progressPercent"`
	ProgressSource  model.ProgressSource `json:"progressSource"`
	SuspiciousCount int                  `json:"suspiciousCount"`
	SessionCount    int                  `json:"sessionCount"`
}

// RecordQuizResult 录入外部测验评分服务的结果
func (s *ReportService) RecordQuizResult(result *model.QuizResult) error {
	if result.Score < 0 || result.Score > 100 {
		return util.ErrInvalidQuizScore
	}
	return s.QuizRepo.SaveResult(result)
}

// ComposeLearningScore 合成 (用户, 课程) 的加权学习分与合规标签
func (s *ReportService) ComposeLearningScore(ctx context.Context, userID, courseID uint, kind model.CourseKind) (*model.LearningScore, error) {
	assignment, err := s.AssignmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, util.ErrAssignmentNotFound
	}

	// 进度取对账后的值，不直接信任存量字段
	rec, err := s.ProgressService.ReconcileProgress(userID, courseID)
	if err != nil {
		return nil, err
	}

	decision, err := s.ProgressService.ShouldComplete(userID, courseID)
	if err != nil {
		return nil, err
	}
	completionRate := 0.0
	if decision.TotalCount > 0 {
		completionRate = float64(decision.CompletedCount) / float64(decision.TotalCount) * 100
	}

	quizScore, err := s.QuizRepo.AverageScore(userID, courseID)
	if err != nil {
		return nil, err
	}

	var attention *float64
	suspicious, total := 0, 0
	if kind == model.CourseOnline {
		avg, sessionCount, err := s.averageAttention(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		if sessionCount > 0 {
			attention = &avg
		}

		suspiciousCount, err := s.SessionRepo.CountSuspiciousByUserAndCourse(userID, courseID)
		if err != nil {
			return nil, err
		}
		totalCount, err := s.SessionRepo.CountByUserAndCourse(userID, courseID)
		if err != nil {
			return nil, err
		}
		suspicious, total = int(suspiciousCount), int(totalCount)
	}

	value := ComposeLearningScoreValue(kind, completionRate, rec.ProgressPercent, attention, quizScore, suspicious, total)

	return &model.LearningScore{
		Value:            value,
		Band:             BandForScore(value),
		ComplianceStatus: ComplianceFor(assignment.Status, assignment.Deadline, time.Now(), value),
	}, nil
}

// averageAttention 该 (用户, 课程) 全部会话的专注度均值
func (s *ReportService) averageAttention(ctx context.Context, userID, courseID uint) (float64, int, error) {
	sessions, err := s.SessionRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return 0, 0, err
	}
	if len(sessions) == 0 {
		return 0, 0, nil
	}

	sum := 0
	for i := range sessions {
		analysis, err := s.Integrity.ScoreSession(ctx, sessions[i].ID)
		if err != nil {
			return 0, 0, err
		}
		sum += analysis.Attention.Score
	}
	return float64(sum) / float64(len(sessions)), len(sessions), nil
}

// CourseKPIReport 生成课程 KPI 报表：逐个指派合成学习分。
// 单个用户失败不终止报表，跳过并记日志。
func (s *ReportService) CourseKPIReport(ctx context.Context, courseID uint) ([]CourseKPIRow, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	assignments, err := s.AssignmentRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}

	rows := make([]CourseKPIRow, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]

		score, err := s.ComposeLearningScore(ctx, a.UserID, courseID, course.Kind)
		if err != nil {
			logger.Log.Error("kpi row failed",
				zap.Uint("userId", a.UserID),
				zap.Uint("courseId", courseID),
				zap.Error(err))
			continue
		}

		rec, err := s.ProgressService.ReconcileProgress(a.UserID, courseID)
		if err != nil {
			logger.Log.Error("kpi row reconciliation failed",
				zap.Uint("userId", a.UserID),
				zap.Uint("courseId", courseID),
				zap.Error(err))
			continue
		}

		suspiciousCount, err := s.SessionRepo.CountSuspiciousByUserAndCourse(a.UserID, courseID)
		if err != nil {
			logger.Log.Error("kpi suspicious count failed",
				zap.Uint("userId", a.UserID),
				zap.Uint("courseId", courseID),
				zap.Error(err))
			continue
		}
		sessionCount, err := s.SessionRepo.CountByUserAndCourse(a.UserID, courseID)
		if err != nil {
			logger.Log.Error("kpi session count failed",
				zap.Uint("userId", a.UserID),
				zap.Uint("courseId", courseID),
				zap.Error(err))
			continue
		}

		rows = append(rows, CourseKPIRow{
			UserID:          a.UserID,
			LearningScore:   *score,
			ProgressPercent: rec.ProgressPercent,
			ProgressSource:  rec.Source,
			SuspiciousCount: int(suspiciousCount),
			SessionCount:    int(sessionCount),
		})
	}

	return rows, nil
}
