package application

import (
	"context"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
	contractsv1 "hanafiyah/contracts/gen/events/v1"
)

func (s Service) IndexQuestion(ctx context.Context, payload contractsv1.QuestionPayload) error {
	if err := s.Indexer.IndexQuestion(ctx, QuestionDocument(payload)); err != nil {
		return err
	}
	s.purge()
	return nil
}

func (s Service) IndexArticle(ctx context.Context, payload contractsv1.ArticlePayload) error {
	if err := s.Indexer.IndexArticle(ctx, ArticleDocument(payload)); err != nil {
		return err
	}
	s.purge()
	return nil
}

func (s Service) IndexLesson(ctx context.Context, payload contractsv1.LessonPayload) error {
	if err := s.Indexer.IndexLesson(ctx, LessonDocument(payload)); err != nil {
		return err
	}
	s.purge()
	return nil
}

func (s Service) IndexEvent(ctx context.Context, payload contractsv1.OfflineEventPayload) error {
	if err := s.Indexer.IndexEvent(ctx, EventDocument(payload)); err != nil {
		return err
	}
	s.purge()
	return nil
}

func QuestionDocument(payload contractsv1.QuestionPayload) entities.QuestionDocument {
	doc := entities.QuestionDocument{
		ID:         payload.QuestionID,
		Content:    payload.Content,
		Telegram:   payload.Telegram,
		IsAnswered: payload.IsAnswered,
		CreatedAt:  payload.CreatedAt,
	}
	if payload.Answer != nil {
		doc.Answer = &entities.AnswerDocument{Content: payload.Answer.Content, CreatedAt: payload.Answer.CreatedAt}
	}
	return doc
}

func ArticleDocument(payload contractsv1.ArticlePayload) entities.ArticleDocument {
	return entities.ArticleDocument{
		ID:        payload.ArticleID,
		Title:     payload.Title,
		Content:   payload.Content,
		Slug:      payload.Slug,
		CreatedAt: payload.CreatedAt,
		UpdatedAt: payload.UpdatedAt,
	}
}

func LessonDocument(payload contractsv1.LessonPayload) entities.LessonDocument {
	return entities.LessonDocument{
		ID:           payload.LessonID,
		MediaType:    payload.MediaType,
		IsIntro:      payload.IsIntro,
		Order:        payload.Order,
		Slug:         payload.Slug,
		CreatedAt:    payload.CreatedAt,
		ModuleName:   payload.ModuleName,
		TopicName:    payload.TopicName,
		CategoryName: payload.CategoryName,
	}
}

func EventDocument(payload contractsv1.OfflineEventPayload) entities.EventDocument {
	return entities.EventDocument{
		ID:          payload.OfflineEventID,
		Title:       payload.Title,
		Description: payload.Description,
		EventDate:   payload.EventDate,
		Location:    payload.Location,
		CreatedAt:   payload.CreatedAt,
	}
}

// BuildCorpus converts contract payloads read from the owning contexts.
func BuildCorpus(
	questions []contractsv1.QuestionPayload,
	articles []contractsv1.ArticlePayload,
	lessons []contractsv1.LessonPayload,
	events []contractsv1.OfflineEventPayload,
) entities.Corpus {
	corpus := entities.Corpus{
		Questions: make([]entities.QuestionDocument, 0, len(questions)),
		Articles:  make([]entities.ArticleDocument, 0, len(articles)),
		Lessons:   make([]entities.LessonDocument, 0, len(lessons)),
		Events:    make([]entities.EventDocument, 0, len(events)),
	}
	for _, payload := range questions {
		corpus.Questions = append(corpus.Questions, QuestionDocument(payload))
	}
	for _, payload := range articles {
		corpus.Articles = append(corpus.Articles, ArticleDocument(payload))
	}
	for _, payload := range lessons {
		corpus.Lessons = append(corpus.Lessons, LessonDocument(payload))
	}
	for _, payload := range events {
		corpus.Events = append(corpus.Events, EventDocument(payload))
	}
	return corpus
}
