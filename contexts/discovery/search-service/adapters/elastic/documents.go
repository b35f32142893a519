package elasticadapter

import (
	"strconv"
	"time"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
)

const (
	IndexQuestions = "questions"
	IndexArticles  = "articles"
	IndexLessons   = "lessons"
	IndexEvents    = "events"
)

// Indices lists every index the engine owns, in result order.
var Indices = []string{IndexQuestions, IndexArticles, IndexLessons, IndexEvents}

func indexFor(kind entities.Kind) string {
	switch kind {
	case entities.KindQuestion:
		return IndexQuestions
	case entities.KindArticle:
		return IndexArticles
	case entities.KindLesson:
		return IndexLessons
	case entities.KindEvent:
		return IndexEvents
	default:
		return ""
	}
}

type answerDoc struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type questionDoc struct {
	ID         int64      `json:"id"`
	Content    string     `json:"content"`
	Telegram   string     `json:"telegram"`
	IsAnswered bool       `json:"is_answered"`
	CreatedAt  time.Time  `json:"created_at"`
	Answer     *answerDoc `json:"answer,omitempty"`
}

type articleDoc struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type categoryDoc struct {
	Name string `json:"name"`
}

type topicDoc struct {
	Name     string      `json:"name"`
	Category categoryDoc `json:"category"`
}

type moduleDoc struct {
	Name  string   `json:"name"`
	Topic topicDoc `json:"topic"`
}

type lessonDoc struct {
	ID        int64     `json:"id"`
	MediaType string    `json:"media_type"`
	IsIntro   bool      `json:"is_intro"`
	Order     int       `json:"order"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	Module    moduleDoc `json:"module"`
}

type eventDoc struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	Location    string     `json:"location"`
	CreatedAt   time.Time  `json:"created_at"`
}

func fromQuestion(doc entities.QuestionDocument) questionDoc {
	out := questionDoc{
		ID:         doc.ID,
		Content:    doc.Content,
		Telegram:   doc.Telegram,
		IsAnswered: doc.IsAnswered,
		CreatedAt:  doc.CreatedAt.UTC(),
	}
	if doc.Answer != nil {
		out.Answer = &answerDoc{Content: doc.Answer.Content, CreatedAt: doc.Answer.CreatedAt.UTC()}
	}
	return out
}

func fromArticle(doc entities.ArticleDocument) articleDoc {
	return articleDoc{
		ID:        doc.ID,
		Title:     doc.Title,
		Content:   doc.Content,
		Slug:      doc.Slug,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}
}

func fromLesson(doc entities.LessonDocument) lessonDoc {
	return lessonDoc{
		ID:        doc.ID,
		MediaType: doc.MediaType,
		IsIntro:   doc.IsIntro,
		Order:     doc.Order,
		Slug:      doc.Slug,
		CreatedAt: doc.CreatedAt.UTC(),
		Module: moduleDoc{
			Name: doc.ModuleName,
			Topic: topicDoc{
				Name:     doc.TopicName,
				Category: categoryDoc{Name: doc.CategoryName},
			},
		},
	}
}

func fromEvent(doc entities.EventDocument) eventDoc {
	return eventDoc{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		EventDate:   doc.EventDate,
		Location:    doc.Location,
		CreatedAt:   doc.CreatedAt.UTC(),
	}
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}
