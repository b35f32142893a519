package entities

import "time"

type UstazProfile struct {
	ID           int64
	Name         string
	Biography    string
	Achievements string
	Photos       []GalleryPhoto
}

type GalleryPhoto struct {
	ID          int64
	ProfileID   int64
	Image       string
	Thumbnail   string
	Description string
}

type Category struct {
	ID   int64
	Name string
	Slug string
}

type Topic struct {
	ID         int64
	Name       string
	CategoryID int64
	Slug       string
}

type Module struct {
	ID      int64
	Name    string
	TopicID int64
	Slug    string
	Order   int
}

type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

func (m MediaType) Valid() bool {
	return m == MediaVideo || m == MediaAudio
}

// Label is the display name used in bot messages.
func (m MediaType) Label() string {
	switch m {
	case MediaVideo:
		return "Видео"
	case MediaAudio:
		return "Аудио"
	default:
		return string(m)
	}
}

type Lesson struct {
	ID        int64
	ModuleID  int64
	MediaType MediaType
	MediaFile string
	Thumbnail string
	IsIntro   bool
	Order     int
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID           int64
	LessonID     int64
	Content      string
	Telegram     string
	HelpfulCount int
	IsModerated  bool
	CreatedAt    time.Time
}

// LessonProgress is the playback position of one device on one lesson.
type LessonProgress struct {
	LessonID   int64
	DeviceHash string
	Timestamp  int
	LastViewed time.Time
}

// OrderUpdate is one item of a reorder request.
type OrderUpdate struct {
	ID    int64
	Order int
}
