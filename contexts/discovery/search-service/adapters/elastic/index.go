package elasticadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
)

// EnsureIndices creates every missing index. drop deletes existing ones
// first, which loses all documents until the next bulk load.
func (e *Engine) EnsureIndices(ctx context.Context, drop bool) error {
	for _, index := range Indices {
		if drop {
			if err := e.deleteIndex(ctx, index); err != nil {
				return err
			}
		}
		exists, err := e.indexExists(ctx, index)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := e.createIndex(ctx, index); err != nil {
			return err
		}
		e.logger.Info("search index created",
			"event", "search_index_created",
			"module", "discovery/search-service",
			"layer", "adapter",
			"index", index,
		)
	}
	return nil
}

func (e *Engine) indexExists(ctx context.Context, index string) (bool, error) {
	res, err := e.es.Indices.Exists([]string{index}, e.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, unavailable(err)
	}
	defer res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("check index %s: %w", index, responseError(res))
	}
}

func (e *Engine) deleteIndex(ctx context.Context, index string) error {
	res, err := e.es.Indices.Delete(
		[]string{index},
		e.es.Indices.Delete.WithContext(ctx),
		e.es.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return unavailable(err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if err := responseError(res); err != nil {
		return fmt.Errorf("delete index %s: %w", index, err)
	}
	e.logger.Info("search index deleted",
		"event", "search_index_deleted",
		"module", "discovery/search-service",
		"layer", "adapter",
		"index", index,
	)
	return nil
}

func (e *Engine) createIndex(ctx context.Context, index string) error {
	payload, err := json.Marshal(indexBody(index))
	if err != nil {
		return err
	}
	res, err := e.es.Indices.Create(
		index,
		e.es.Indices.Create.WithContext(ctx),
		e.es.Indices.Create.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return unavailable(err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	return nil
}

func (e *Engine) IndexQuestion(ctx context.Context, doc entities.QuestionDocument) error {
	return e.put(ctx, IndexQuestions, docID(doc.ID), fromQuestion(doc))
}

func (e *Engine) IndexArticle(ctx context.Context, doc entities.ArticleDocument) error {
	return e.put(ctx, IndexArticles, docID(doc.ID), fromArticle(doc))
}

func (e *Engine) IndexLesson(ctx context.Context, doc entities.LessonDocument) error {
	return e.put(ctx, IndexLessons, docID(doc.ID), fromLesson(doc))
}

func (e *Engine) IndexEvent(ctx context.Context, doc entities.EventDocument) error {
	return e.put(ctx, IndexEvents, docID(doc.ID), fromEvent(doc))
}

func (e *Engine) put(ctx context.Context, index, id string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := e.es.Index(
		index,
		bytes.NewReader(payload),
		e.es.Index.WithContext(ctx),
		e.es.Index.WithDocumentID(id),
		e.es.Index.WithRefresh("true"),
	)
	if err != nil {
		return unavailable(err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return fmt.Errorf("index %s/%s: %w", index, id, err)
	}
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// BulkIndex writes the corpus in one bulk request per index.
func (e *Engine) BulkIndex(ctx context.Context, corpus entities.Corpus) error {
	batches := map[string][]bulkDoc{}
	for _, doc := range corpus.Questions {
		batches[IndexQuestions] = append(batches[IndexQuestions], bulkDoc{id: docID(doc.ID), body: fromQuestion(doc)})
	}
	for _, doc := range corpus.Articles {
		batches[IndexArticles] = append(batches[IndexArticles], bulkDoc{id: docID(doc.ID), body: fromArticle(doc)})
	}
	for _, doc := range corpus.Lessons {
		batches[IndexLessons] = append(batches[IndexLessons], bulkDoc{id: docID(doc.ID), body: fromLesson(doc)})
	}
	for _, doc := range corpus.Events {
		batches[IndexEvents] = append(batches[IndexEvents], bulkDoc{id: docID(doc.ID), body: fromEvent(doc)})
	}
	for _, index := range Indices {
		if err := e.bulk(ctx, index, batches[index]); err != nil {
			return err
		}
	}
	return nil
}

type bulkDoc struct {
	id   string
	body any
}

func (e *Engine) bulk(ctx context.Context, index string, docs []bulkDoc) error {
	if len(docs) == 0 {
		return nil
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, doc := range docs {
		action := map[string]any{"index": map[string]any{"_index": index, "_id": doc.id}}
		if err := encoder.Encode(action); err != nil {
			return err
		}
		if err := encoder.Encode(doc.body); err != nil {
			return err
		}
	}
	res, err := e.es.Bulk(
		&buf,
		e.es.Bulk.WithContext(ctx),
		e.es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return unavailable(err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return fmt.Errorf("bulk %s: %w", index, err)
	}
	var decoded bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode bulk %s response: %w", index, err)
	}
	if decoded.Errors {
		failed := 0
		reason := ""
		for _, item := range decoded.Items {
			for _, result := range item {
				if result.Error != nil {
					failed++
					if reason == "" {
						reason = result.Error.Type + ": " + result.Error.Reason
					}
				}
			}
		}
		return fmt.Errorf("bulk %s: %d of %d documents failed, first: %s", index, failed, len(docs), reason)
	}
	e.logger.Info("search documents indexed",
		"event", "search_bulk_indexed",
		"module", "discovery/search-service",
		"layer", "adapter",
		"index", index,
		"documents", len(docs),
	)
	return nil
}
