package model

type CourseKind string

const (
	// 传统课程：无播放遥测，学习分不含专注度项
	CourseTraditional CourseKind = "traditional"
	// 在线课程：含播放遥测与可疑会话惩罚
	CourseOnline CourseKind = "online"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Kind        CourseKind `gorm:"type:enum('traditional','online');default:'online'" json:"kind"`
	TeacherID   uint       `gorm:"index;type:bigint unsigned" json:"teacherId"`
	Published   bool       `gorm:"default:false" json:"published"`
}

func (Course) TableName() string {
	return "courses"
}

type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentDocument ContentType = "document"
)

// ContentItem 课程内容条目（视频或文档）
// swagger:model ContentItem
type ContentItem struct {
	BaseModel
	CourseID    uint        `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Type        ContentType `gorm:"type:enum('video','document');not null" json:"type"`
	URL         string      `gorm:"size:255" json:"url"`
	// 视频预期时长（秒），上传时由 ffmpeg 探测写入；未知为 null
	ExpectedDurationSeconds *float64 `gorm:"column:expected_duration_seconds" json:"expectedDurationSeconds"`
	// 文档页数，用于估算阅读时长；未知为 null
	PageCount  *int  `gorm:"column:page_count" json:"pageCount"`
	IsRequired bool  `gorm:"default:true" json:"isRequired"`
	Order      int   `gorm:"default:0" json:"order"`
	Size       int64 `gorm:"default:0" json:"size"`
	UploaderID uint  `gorm:"index;type:bigint unsigned" json:"uploaderId"`
}

func (ContentItem) TableName() string {
	return "content_items"
}
