package memory

import (
	"context"

	"hanafiyah/contexts/discovery/search-service/domain/entities"
)

// StaticSource serves a fixed corpus.
type StaticSource struct {
	Corpus entities.Corpus
}

func (s StaticSource) LoadCorpus(context.Context) (entities.Corpus, error) {
	return s.Corpus, nil
}
