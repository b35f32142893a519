package elasticadapter

// Synonyms folds the spellings of religious terms users type in Russian
// and Kyrgyz.
var Synonyms = []string{
	"намаз, намас, салят",
	"дарат, даарат, тахарат, омовение",
	"орозо, ураза, ораза, пост",
	"садага, садака, милостыня",
	"ажы, ажылык, хадж",
	"нике, никах",
	"курман, курбан",
	"жума, джума",
}

func indexSettings() map[string]any {
	return map[string]any{
		"number_of_shards":   1,
		"number_of_replicas": 0,
		"analysis": map[string]any{
			"filter": map[string]any{
				"russian_stop": map[string]any{
					"type":      "stop",
					"stopwords": "_russian_",
				},
				"russian_stemmer": map[string]any{
					"type":     "stemmer",
					"language": "russian",
				},
				"religious_synonyms": map[string]any{
					"type":     "synonym",
					"synonyms": Synonyms,
				},
			},
			"analyzer": map[string]any{
				"custom_analyzer": map[string]any{
					"type":        "custom",
					"char_filter": []string{"html_strip"},
					"tokenizer":   "standard",
					"filter":      []string{"lowercase", "religious_synonyms", "russian_stop", "russian_stemmer", "word_delimiter"},
				},
			},
		},
	}
}

func textField() map[string]any {
	return map[string]any{"type": "text", "analyzer": "custom_analyzer"}
}

func keywordField() map[string]any {
	return map[string]any{"type": "keyword"}
}

func dateField() map[string]any {
	return map[string]any{"type": "date"}
}

func objectField(properties map[string]any) map[string]any {
	return map[string]any{"type": "object", "properties": properties}
}

// indexBody returns the create-index request for name. answer is mapped as
// a plain object so multi_match can reach answer.content.
func indexBody(name string) map[string]any {
	var properties map[string]any
	switch name {
	case IndexQuestions:
		properties = map[string]any{
			"id":          map[string]any{"type": "long"},
			"content":     textField(),
			"telegram":    keywordField(),
			"is_answered": map[string]any{"type": "boolean"},
			"created_at":  dateField(),
			"answer": objectField(map[string]any{
				"content":    textField(),
				"created_at": dateField(),
			}),
		}
	case IndexArticles:
		properties = map[string]any{
			"id":         map[string]any{"type": "long"},
			"title":      textField(),
			"content":    textField(),
			"slug":       keywordField(),
			"created_at": dateField(),
			"updated_at": dateField(),
		}
	case IndexLessons:
		properties = map[string]any{
			"id":         map[string]any{"type": "long"},
			"media_type": keywordField(),
			"is_intro":   map[string]any{"type": "boolean"},
			"order":      map[string]any{"type": "integer"},
			"slug":       keywordField(),
			"created_at": dateField(),
			"module": objectField(map[string]any{
				"name": textField(),
				"topic": objectField(map[string]any{
					"name": textField(),
					"category": objectField(map[string]any{
						"name": textField(),
					}),
				}),
			}),
		}
	case IndexEvents:
		properties = map[string]any{
			"id":          map[string]any{"type": "long"},
			"title":       textField(),
			"description": textField(),
			"event_date":  dateField(),
			"location":    textField(),
			"created_at":  dateField(),
		}
	}
	return map[string]any{
		"settings": indexSettings(),
		"mappings": map[string]any{"properties": properties},
	}
}
