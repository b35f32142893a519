package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type GalleryPhotoDTO struct {
	ID          int64  `json:"id"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

type UstazProfileDTO struct {
	Biography    string            `json:"biography"`
	Achievements string            `json:"achievements"`
	Photos       []GalleryPhotoDTO `json:"photos"`
}

type CommentDTO struct {
	ID           int64  `json:"id"`
	Content      string `json:"content"`
	Telegram     string `json:"telegram"`
	HelpfulCount int    `json:"helpful_count"`
	CreatedAt    string `json:"created_at"`
}

type LessonDTO struct {
	ID        int64        `json:"id"`
	Module    int64        `json:"module"`
	MediaType string       `json:"media_type"`
	MediaFile string       `json:"media_file"`
	IsIntro   bool         `json:"is_intro"`
	Order     int          `json:"order"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
	Slug      string       `json:"slug"`
	Comments  []CommentDTO `json:"comments"`
}

type ModuleDTO struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Topic   int64       `json:"topic"`
	Slug    string      `json:"slug"`
	Lessons []LessonDTO `json:"lessons"`
}

type TopicDTO struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Category int64       `json:"category"`
	Slug     string      `json:"slug"`
	Modules  []ModuleDTO `json:"modules"`
}

type CategoryDTO struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Slug   string     `json:"slug"`
	Topics []TopicDTO `json:"topics"`
}

type AddCommentRequest struct {
	Content  string `json:"content"`
	Telegram string `json:"telegram"`
}

type MarkHelpfulRequest struct {
	CommentID int64 `json:"comment_id"`
}

type OrderItem struct {
	ID    int64 `json:"id"`
	Order int   `json:"order"`
}

type SaveProgressRequest struct {
	Timestamp int `json:"timestamp"`
}

type ProgressResponse struct {
	Timestamp  int     `json:"timestamp"`
	LastViewed *string `json:"last_viewed,omitempty"`
}

type UpsertProfileRequest struct {
	Name         string `json:"name"`
	Biography    string `json:"biography"`
	Achievements string `json:"achievements"`
}

type AddPhotoRequest struct {
	Image       string `json:"image"`
	Description string `json:"description"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CreateTopicRequest struct {
	Name     string `json:"name"`
	Category int64  `json:"category"`
}

type CreateModuleRequest struct {
	Name  string `json:"name"`
	Topic int64  `json:"topic"`
	Order int    `json:"order"`
}

type CreateLessonRequest struct {
	Module    int64  `json:"module"`
	MediaType string `json:"media_type"`
	MediaFile string `json:"media_file"`
	Thumbnail string `json:"thumbnail"`
	IsIntro   bool   `json:"is_intro"`
	Order     *int   `json:"order"`
}

type ApproveCommentsRequest struct {
	IDs []int64 `json:"ids"`
}

type ApproveCommentsResponse struct {
	Approved int `json:"approved"`
}
