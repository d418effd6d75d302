package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/ecomai/ecom-api-server/internal/domains/catalog/adapters/memory"
	"github.com/ecomai/ecom-api-server/internal/domains/catalog/domain"
	searchdomain "github.com/ecomai/ecom-api-server/internal/domains/search/domain"
)

// recordingIndex journals index operations so tests can assert ordering.
type recordingIndex struct {
	ops       []string
	docs      []searchdomain.Document
	found     []searchdomain.Document
	deleteErr error
	addErr    error
}

func (r *recordingIndex) Add(_ context.Context, doc searchdomain.Document) error {
	r.ops = append(r.ops, "add")
	if r.addErr != nil {
		return r.addErr
	}
	r.docs = append(r.docs, doc)
	return nil
}

func (r *recordingIndex) DeleteByMetadata(_ context.Context, key, value string) error {
	r.ops = append(r.ops, "delete:"+key+"="+value)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	kept := r.docs[:0]
	for _, doc := range r.docs {
		if doc.MetadataValue(key) != value {
			kept = append(kept, doc)
		}
	}
	r.docs = kept
	return nil
}

func (r *recordingIndex) Search(_ context.Context, _ string, _ int, _ float64) ([]searchdomain.Document, error) {
	return r.found, nil
}

// scriptedChat returns a canned reply and records the prompt it saw.
type scriptedChat struct {
	reply  string
	err    error
	prompt string
}

func (c *scriptedChat) Complete(_ context.Context, prompt string) (string, error) {
	c.prompt = prompt
	return c.reply, c.err
}

type scriptedImager struct {
	image []byte
	err   error
}

func (i *scriptedImager) Generate(_ context.Context, _ string) ([]byte, error) {
	return i.image, i.err
}

func sampleProduct(id int64, name string, stock int32) *domain.Product {
	return &domain.Product{
		ID:            id,
		Name:          name,
		Price:         decimal.RequireFromString("19.99"),
		StockQuantity: stock,
		Available:     stock > 0,
	}
}

func TestSave_ReindexesDeleteBeforeAdd(t *testing.T) {
	repo := catalogmemory.NewRepository()
	index := &recordingIndex{}
	svc := NewService(repo, WithSemanticIndex(index))

	saved, err := svc.Save(context.Background(), sampleProduct(7, "Widget", 10))
	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.ID)

	require.Equal(t, []string{"delete:productId=7", "add"}, index.ops)
	require.Len(t, index.docs, 1)
	assert.Equal(t, "7", index.docs[0].MetadataValue(searchdomain.MetadataProductID))
	assert.Contains(t, index.docs[0].Content, "Product Name: Widget")
	assert.Contains(t, index.docs[0].Content, "Stock: 10")
}

func TestSave_IndexFailureDoesNotFailWrite(t *testing.T) {
	repo := catalogmemory.NewRepository()
	index := &recordingIndex{deleteErr: errors.New("index down")}
	svc := NewService(repo, WithSemanticIndex(index))

	saved, err := svc.Save(context.Background(), sampleProduct(7, "Widget", 10))
	require.NoError(t, err)

	fetched, err := svc.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", fetched.Name)
	// the failed purge must not be followed by an add of a possibly duplicated doc
	assert.Equal(t, []string{"delete:productId=7"}, index.ops)
}

func TestSave_RejectsInvalidProduct(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	_, err := svc.Save(context.Background(), sampleProduct(1, "  ", 5))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Save(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete_PurgesDocument(t *testing.T) {
	repo := catalogmemory.NewRepository()
	index := &recordingIndex{}
	svc := NewService(repo, WithSemanticIndex(index))

	saved, err := svc.Save(context.Background(), sampleProduct(7, "Widget", 10))
	require.NoError(t, err)
	require.Len(t, index.docs, 1)

	require.NoError(t, svc.Delete(context.Background(), saved.ID))
	assert.Empty(t, index.docs)

	_, err = svc.GetByID(context.Background(), saved.ID)
	assert.Error(t, err)
}

func TestGenerateDescription_UsesChatModel(t *testing.T) {
	chat := &scriptedChat{reply: "  A fine widget.  "}
	svc := NewService(catalogmemory.NewRepository(), WithChatModel(chat))

	description, err := svc.GenerateDescription(context.Background(), "Widget", "Tools")
	require.NoError(t, err)
	assert.Equal(t, "A fine widget.", description)
	assert.Contains(t, chat.prompt, "Widget")
	assert.Contains(t, chat.prompt, "Tools")
}

func TestGenerateDescription_Unconfigured(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	_, err := svc.GenerateDescription(context.Background(), "Widget", "Tools")
	assert.ErrorIs(t, err, ErrAssistUnavailable)
}

func TestGenerateImage_UsesImageModel(t *testing.T) {
	imager := &scriptedImager{image: []byte{0x89, 'P', 'N', 'G'}}
	svc := NewService(catalogmemory.NewRepository(), WithImageModel(imager))

	image, err := svc.GenerateImage(context.Background(), "Widget", "Tools", "A fine widget.")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, image)
}

func TestSemanticSearch_ResolvesProductsFromReply(t *testing.T) {
	repo := catalogmemory.NewRepository()
	for id, name := range map[int64]string{1: "Widget", 2: "Gadget", 3: "Doohickey"} {
		_, err := repo.Save(context.Background(), sampleProduct(id, name, 5))
		require.NoError(t, err)
	}
	index := &recordingIndex{found: []searchdomain.Document{
		{ID: "d1", Content: "Product Name: Widget", Metadata: map[string]string{searchdomain.MetadataProductID: "1"}},
		{ID: "d2", Content: "Product Name: Gadget", Metadata: map[string]string{searchdomain.MetadataProductID: "2"}},
	}}
	chat := &scriptedChat{reply: "```json\n[{\"id\": 2}, {\"id\": 1}, {\"id\": 2}, {\"id\": -4}]\n```"}
	svc := NewService(repo, WithSemanticIndex(index), WithChatModel(chat))

	products, err := svc.SemanticSearch(context.Background(), "something to tighten bolts")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Gadget", products[0].Name)
	assert.Equal(t, "Widget", products[1].Name)

	assert.Contains(t, chat.prompt, "Product Id: 1")
	assert.Contains(t, chat.prompt, "Product Id: 2")
}

func TestSemanticSearch_NoMatches(t *testing.T) {
	repo := catalogmemory.NewRepository()
	index := &recordingIndex{}
	chat := &scriptedChat{reply: "I could not find anything relevant."}
	svc := NewService(repo, WithSemanticIndex(index), WithChatModel(chat))

	products, err := svc.SemanticSearch(context.Background(), "unicorn polish")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSemanticSearch_EmptyQuery(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository(),
		WithSemanticIndex(&recordingIndex{}), WithChatModel(&scriptedChat{}))

	_, err := svc.SemanticSearch(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseProductIDs(t *testing.T) {
	assert.Equal(t, []int64{1, 2}, parseProductIDs(`[{"id":1},{"id":2}]`))
	assert.Equal(t, []int64{3}, parseProductIDs("Here you go:\n```json\n[{\"id\":3}]\n```\nHope that helps!"))
	assert.Equal(t, []int64{5}, parseProductIDs(`[{"id":5},{"id":5},{"id":0}]`))
	assert.Empty(t, parseProductIDs("no json here"))
	assert.Empty(t, parseProductIDs(""))
}
