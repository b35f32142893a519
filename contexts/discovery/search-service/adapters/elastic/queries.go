package elasticadapter

import "hanafiyah/contexts/discovery/search-service/domain/entities"

type kindSpec struct {
	index     string
	fields    []string
	highlight []string
}

var searchSpecs = map[entities.Kind]kindSpec{
	entities.KindQuestion: {
		index:     IndexQuestions,
		fields:    []string{"content^2", "answer.content"},
		highlight: []string{"content", "answer.content"},
	},
	entities.KindArticle: {
		index:     IndexArticles,
		fields:    []string{"title^3", "content"},
		highlight: []string{"title", "content"},
	},
	entities.KindLesson: {
		index:     IndexLessons,
		fields:    []string{"module.name^2", "module.topic.name", "module.topic.category.name"},
		highlight: []string{"module.name"},
	},
	entities.KindEvent: {
		index:     IndexEvents,
		fields:    []string{"title^2", "description", "location"},
		highlight: []string{"title", "description"},
	},
}

var suggestSpecs = []struct {
	kind   entities.Kind
	fields []string
}{
	{kind: entities.KindArticle, fields: []string{"title^3", "content^2"}},
	{kind: entities.KindLesson, fields: []string{"module.name^3", "module.topic.name^2"}},
	{kind: entities.KindEvent, fields: []string{"title^3", "description^2"}},
}

func highlightBody(fields []string, fragmentSize, fragments int) map[string]any {
	hl := make(map[string]any, len(fields))
	for _, field := range fields {
		options := map[string]any{}
		if fragmentSize > 0 {
			options["fragment_size"] = fragmentSize
			options["number_of_fragments"] = fragments
		}
		hl[field] = options
	}
	return map[string]any{
		"pre_tags":  []string{"<em>"},
		"post_tags": []string{"</em>"},
		"fields":    hl,
	}
}

func searchQuery(spec kindSpec, text string, from, size int) map[string]any {
	return map[string]any{
		"from": from,
		"size": size,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     text,
				"fields":    spec.fields,
				"fuzziness": "AUTO",
			},
		},
		"highlight": highlightBody(spec.highlight, 0, 0),
	}
}

// questionSuggestQuery favours exact phrases, then near matches, over
// answered questions only.
func questionSuggestQuery(text string, size int) map[string]any {
	return map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"should": []any{
					map[string]any{"match_phrase": map[string]any{
						"content": map[string]any{"query": text, "boost": 3, "slop": 2},
					}},
					map[string]any{"multi_match": map[string]any{
						"query":                text,
						"fields":               []string{"content^2", "answer.content"},
						"type":                 "best_fields",
						"minimum_should_match": "70%",
						"fuzziness":            "AUTO",
					}},
					map[string]any{"match": map[string]any{
						"content": map[string]any{"query": text, "operator": "and", "minimum_should_match": "60%"},
					}},
				},
				"minimum_should_match": 1,
				"filter": []any{
					map[string]any{"term": map[string]any{"is_answered": true}},
				},
			},
		},
		"highlight": highlightBody([]string{"content", "answer.content"}, 150, 1),
	}
}

func contentSuggestQuery(fields []string, text string, size int) map[string]any {
	return map[string]any{
		"size": size,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":                text,
				"fields":               fields,
				"type":                 "best_fields",
				"minimum_should_match": "70%",
				"fuzziness":            1,
			},
		},
	}
}

func phrasePrefixQuery(field, prefix string, size int) map[string]any {
	return map[string]any{
		"size": size,
		"query": map[string]any{
			"match_phrase_prefix": map[string]any{
				field: map[string]any{"query": prefix, "max_expansions": 20},
			},
		},
		"highlight": highlightBody([]string{field}, 100, 1),
	}
}

// similarQuestionsQuery ranks answered questions by shared terms with text.
func similarQuestionsQuery(text string, size int) map[string]any {
	return map[string]any{
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{"more_like_this": map[string]any{
						"fields":               []string{"content", "answer.content"},
						"like":                 text,
						"min_term_freq":        1,
						"min_doc_freq":         1,
						"minimum_should_match": "30%",
					}},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"is_answered": true}},
				},
			},
		},
	}
}
