package model

// 会话完整性引擎产出的派生值对象，不落库，由调用方序列化。

// SessionSummary 单个或多个会话归一化后的时长/活动摘要
type SessionSummary struct {
	DurationMinutes       float64 `json:"durationMinutes"`
	ActivePlaybackMinutes float64 `json:"activePlaybackMinutes"`
	WithinAllowedWindow   bool    `json:"withinAllowedWindow"`
	SkipCount             int     `json:"skipCount"`
	SeekCount             int     `json:"seekCount"`
	PauseCount            int     `json:"pauseCount"`
	ReplayCount           int     `json:"replayCount"`
	SessionEnded          bool    `json:"sessionEnded"`
	// 源数据缺失/异常（缺结束时间、时钟倒流等）时置位，供调用方记日志；不是错误
	Degraded bool `json:"degraded"`
}

// AttentionResult 0-100 专注度评分
type AttentionResult struct {
	Score        int  `json:"score"`
	IsSuspicious bool `json:"isSuspicious"`
	// 按触发顺序列出的计分规则，供下游展示原因
	ContributingFactors []string `json:"contributingFactors"`
}

type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
	RiskMinimal  RiskLevel = "minimal"
)

// RiskResult 0-100 作弊/风险评分与分级
type RiskResult struct {
	Score        int       `json:"score"`
	RiskLevel    RiskLevel `json:"riskLevel"`
	IsSuspicious bool      `json:"isSuspicious"`
	Reasons      []string  `json:"reasons"`
}

type ScoreBand string

const (
	BandExcellent      ScoreBand = "excellent"
	BandGood           ScoreBand = "good"
	BandNeedsAttention ScoreBand = "needs_attention"
)

type ComplianceStatus string

const (
	ComplianceCompliant    ComplianceStatus = "compliant"
	ComplianceAtRisk       ComplianceStatus = "at_risk"
	ComplianceNonCompliant ComplianceStatus = "non_compliant"
)

// LearningScore 完成度/进度/专注度/测验的加权合成分
type LearningScore struct {
	Value            float64          `json:"value"`
	Band             ScoreBand        `json:"band"`
	ComplianceStatus ComplianceStatus `json:"complianceStatus"`
}

type ProgressSource string

const (
	ProgressSourceDatabase   ProgressSource = "database"
	ProgressSourceCalculated ProgressSource = "calculated"
)

// ProgressReconciliation 读取时进度校正结果；存量值永不回写
type ProgressReconciliation struct {
	ProgressPercent float64        `json:"progressPercent"`
	Source          ProgressSource `json:"source"`
	IsValid         bool           `json:"isValid"`
	Detail          string         `json:"detail,omitempty"`
}

// SessionAnalysis ScoreSession 的完整输出
type SessionAnalysis struct {
	SessionID       uint            `json:"sessionId"`
	UserID          uint            `json:"userId"`
	ContentID       uint            `json:"contentId"`
	CourseID        uint            `json:"courseId"`
	DurationMinutes float64         `json:"durationMinutes"`
	Attention       AttentionResult `json:"attention"`
	Risk            RiskResult      `json:"risk"`
}

// ContentEngagement (用户, 内容) 全部历史会话聚合后的参与度视图
type ContentEngagement struct {
	UserID                uint            `json:"userId"`
	ContentID             uint            `json:"contentId"`
	SessionCount          int             `json:"sessionCount"`
	TotalDurationMinutes  float64         `json:"totalDurationMinutes"`
	ActivePlaybackMinutes float64         `json:"activePlaybackMinutes"`
	MaxCompletion         float64         `json:"maxCompletion"`
	Attention             AttentionResult `json:"attention"`
	Risk                  RiskResult      `json:"risk"`
}

// CompletionDecision ShouldComplete 的输出
type CompletionDecision struct {
	ShouldComplete bool `json:"shouldComplete"`
	CompletedCount int  `json:"completedCount"`
	TotalCount     int  `json:"totalCount"`
}

// BulkReconciliation 批量对账汇总
type BulkReconciliation struct {
	CourseID        uint    `json:"courseId"`
	AssignmentCount int     `json:"assignmentCount"`
	CorrectedCount  int     `json:"correctedCount"`
	AverageProgress float64 `json:"averageProgress"`
}

// SweepResult 夜间巡检一次批处理的汇总
type SweepResult struct {
	CourseID uint `json:"courseId"`
	Scored   int  `json:"scored"`
	Flagged  int  `json:"flagged"`
	Failed   int  `json:"failed"`
}
