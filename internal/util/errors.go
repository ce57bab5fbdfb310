package util

import "errors"

var (
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrCourseNotFound      = errors.New("course not found")
	ErrContentNotFound     = errors.New("content not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrSessionAlreadyEnded = errors.New("session already ended")
	ErrInvalidQuizScore    = errors.New("quiz score out of range")
	// 聚合会话时的跨实体混入，属编程错误，必须拒绝而非静默混合
	ErrSessionMismatch = errors.New("session user/content mismatch")
)
