package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ecomai/ecom-api-server/internal/domains/search/domain"
	"github.com/ecomai/ecom-api-server/internal/domains/search/ports"
)

var _ ports.SemanticIndex = (*Index)(nil)

// Index is an in-memory stand-in for the external vector store, used when no
// vector store is configured and by tests. Similarity is approximated by
// term overlap, which is enough to exercise retrieval plumbing.
type Index struct {
	mu   sync.RWMutex
	docs []domain.Document
}

func NewIndex() *Index {
	return &Index{}
}

func (i *Index) Add(_ context.Context, doc domain.Document) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.docs = append(i.docs, cloneDocument(doc))
	return nil
}

func (i *Index) DeleteByMetadata(_ context.Context, key, value string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	kept := i.docs[:0]
	for _, doc := range i.docs {
		if doc.MetadataValue(key) != value {
			kept = append(kept, doc)
		}
	}
	i.docs = kept
	return nil
}

func (i *Index) Search(_ context.Context, query string, topK int, minScore float64) ([]domain.Document, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || topK <= 0 {
		return nil, nil
	}
	i.mu.RLock()
	defer i.mu.RUnlock()

	type scored struct {
		doc   domain.Document
		score float64
	}
	var matches []scored
	for _, doc := range i.docs {
		content := strings.ToLower(doc.Content)
		hits := 0
		for _, term := range terms {
			if strings.Contains(content, term) {
				hits++
			}
		}
		score := float64(hits) / float64(len(terms))
		if hits > 0 && score >= minScore {
			matches = append(matches, scored{doc: cloneDocument(doc), score: score})
		}
	}
	sort.SliceStable(matches, func(a, b int) bool { return matches[a].score > matches[b].score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	result := make([]domain.Document, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.doc)
	}
	return result, nil
}

// Documents returns a snapshot of everything indexed, for tests.
func (i *Index) Documents() []domain.Document {
	i.mu.RLock()
	defer i.mu.RUnlock()
	snapshot := make([]domain.Document, 0, len(i.docs))
	for _, doc := range i.docs {
		snapshot = append(snapshot, cloneDocument(doc))
	}
	return snapshot
}

func cloneDocument(doc domain.Document) domain.Document {
	clone := doc
	if doc.Metadata != nil {
		clone.Metadata = make(map[string]string, len(doc.Metadata))
		for k, v := range doc.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}
