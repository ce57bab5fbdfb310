package service

import (
	"fmt"

	"learnguard_backend/internal/model"
)

// 进度对账常量
const (
	// 任一信号达到该完成度即视为"曾经完成"
	completionSignalThreshold = 95.0
	// 存量进度允许高出实算进度的舍入容差（百分点）
	storedProgressTolerance = 5.0
)

// ProgressSnapshot 对账所需的只读快照，由协作方取数后传入；引擎不做任何 I/O。
type ProgressSnapshot struct {
	Assignment *model.CourseAssignment
	// 课程全部内容条目；对账只统计 IsRequired 的条目
	Items []model.ContentItem
	// 按内容聚合的进度心跳记录
	ProgressByContent map[uint]*model.ContentProgress
	// 按内容聚合的历史会话最高自报完成度
	SessionMaxByContent map[uint]float64
}

// ContentEverCompleted 三信号 OR 完成判定。
// 进度表可能被后来更差的会话覆盖，任何一路信号达标都算完成，真实的完成记录不能丢。
func ContentEverCompleted(progress *model.ContentProgress, maxSessionCompletion float64) bool {
	if progress != nil {
		if progress.IsCompleted || progress.CompletionPercentage >= completionSignalThreshold {
			return true
		}
	}
	return maxSessionCompletion >= completionSignalThreshold
}

// ComputeActualProgress 对必修内容逐条做三信号判定，得到实算进度
func ComputeActualProgress(snap *ProgressSnapshot) (completed, total int, percent float64) {
	for i := range snap.Items {
		item := &snap.Items[i]
		if !item.IsRequired {
			continue
		}
		total++
		if ContentEverCompleted(snap.ProgressByContent[item.ID], snap.SessionMaxByContent[item.ID]) {
			completed++
		}
	}

	if total == 0 {
		return 0, 0, 0
	}
	return completed, total, float64(completed) / float64(total) * 100
}

// ReconcileSnapshot 校验存量进度并在失真时用实算进度做读取时校正。
// 校验失败不是错误，而是要上报的信号；存量值永不回写。
func ReconcileSnapshot(snap *ProgressSnapshot) model.ProgressReconciliation {
	stored := snap.Assignment.ProgressPercentage
	status := snap.Assignment.Status

	_, total, actual := ComputeActualProgress(snap)
	if total == 0 {
		// 课程尚无必修内容，没有可对账的分母，按存量放行
		return model.ProgressReconciliation{
			ProgressPercent: stored,
			Source:          model.ProgressSourceDatabase,
			IsValid:         true,
		}
	}

	detail := validateStoredProgress(status, stored, actual)
	if detail == "" {
		return model.ProgressReconciliation{
			ProgressPercent: stored,
			Source:          model.ProgressSourceDatabase,
			IsValid:         true,
		}
	}

	return model.ProgressReconciliation{
		ProgressPercent: actual,
		Source:          model.ProgressSourceCalculated,
		IsValid:         false,
		Detail:          detail,
	}
}

// validateStoredProgress 按固定顺序逐条校验，返回首个被违反的规则描述；全部通过返回空串
func validateStoredProgress(status model.AssignmentStatus, stored, actual float64) string {
	if status == model.AssignmentCompleted && stored < 100 {
		return fmt.Sprintf("状态已完成但存量进度仅 %.1f%%", stored)
	}
	if status == model.AssignmentCompleted && actual < 100 {
		return fmt.Sprintf("状态已完成但实算进度仅 %.1f%%", actual)
	}
	if stored > actual+storedProgressTolerance {
		return fmt.Sprintf("存量进度 %.1f%% 超出实算进度 %.1f%% 的容差范围", stored, actual)
	}
	if actual >= 100 && stored < completionSignalThreshold {
		return fmt.Sprintf("实算已全部完成但存量进度仅 %.1f%%", stored)
	}
	if stored < 0 {
		return fmt.Sprintf("存量进度为负值 %.1f%%", stored)
	}
	return ""
}
