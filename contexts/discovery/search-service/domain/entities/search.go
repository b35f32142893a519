package entities

import "time"

// Kind names the type of a single search hit.
type Kind string

const (
	KindQuestion Kind = "question"
	KindArticle  Kind = "article"
	KindLesson   Kind = "lesson"
	KindEvent    Kind = "event"
)

// Scope is the `type` filter of a search request.
type Scope string

const (
	ScopeAll       Scope = "all"
	ScopeQuestions Scope = "questions"
	ScopeArticles  Scope = "articles"
	ScopeLessons   Scope = "lessons"
	ScopeEvents    Scope = "events"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeAll, ScopeQuestions, ScopeArticles, ScopeLessons, ScopeEvents:
		return true
	default:
		return false
	}
}

// Kinds lists the kinds a scope covers in result order.
func (s Scope) Kinds() []Kind {
	switch s {
	case ScopeQuestions:
		return []Kind{KindQuestion}
	case ScopeArticles:
		return []Kind{KindArticle}
	case ScopeLessons:
		return []Kind{KindLesson}
	case ScopeEvents:
		return []Kind{KindEvent}
	case ScopeAll:
		return []Kind{KindQuestion, KindArticle, KindLesson, KindEvent}
	default:
		return nil
	}
}

// Query asks every kind in Scope for the same page window.
type Query struct {
	Text  string
	Scope Scope
	Page  int
	Size  int
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.Size
}

type Info struct {
	IsAnswered *bool
	Telegram   string
	Topic      string
	Category   string
	EventDate  *time.Time
	Location   string
}

type Result struct {
	ID        int64
	Kind      Kind
	Title     string
	Content   string
	Slug      string
	URL       string
	CreatedAt time.Time
	Highlight string
	Score     float64
	Info      *Info
}

type ResultPage struct {
	Results []Result
	Total   int
	Page    int
	Size    int
}

type Suggestion struct {
	Text       string
	Kind       Kind
	URL        string
	IsAnswered *bool
	Score      float64
}

type Completion struct {
	Text      string
	Highlight string
}

type SimilarQuestion struct {
	ID         int64
	Content    string
	CreatedAt  time.Time
	IsAnswered bool
	Score      float64
}

// RebuildReport counts the documents written per index.
type RebuildReport struct {
	Questions int
	Articles  int
	Lessons   int
	Events    int
}

func (r RebuildReport) Total() int {
	return r.Questions + r.Articles + r.Lessons + r.Events
}
