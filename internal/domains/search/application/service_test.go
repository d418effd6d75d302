package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searchmemory "github.com/ecomai/ecom-api-server/internal/domains/search/adapters/memory"
	"github.com/ecomai/ecom-api-server/internal/domains/search/domain"
)

type scriptedChat struct {
	reply  string
	err    error
	prompt string
}

func (c *scriptedChat) Complete(_ context.Context, prompt string) (string, error) {
	c.prompt = prompt
	return c.reply, c.err
}

type failingIndex struct{}

func (failingIndex) Add(context.Context, domain.Document) error { return errors.New("index down") }
func (failingIndex) DeleteByMetadata(context.Context, string, string) error {
	return errors.New("index down")
}
func (failingIndex) Search(context.Context, string, int, float64) ([]domain.Document, error) {
	return nil, errors.New("index down")
}

func TestAsk_IncludesRetrievedContext(t *testing.T) {
	index := searchmemory.NewIndex()
	require.NoError(t, index.Add(context.Background(), domain.NewDocument(
		"Order Summary: wireless headphones shipped", map[string]string{domain.MetadataOrderID: "ORD1234567890"})))
	chat := &scriptedChat{reply: "Your headphones are on the way."}
	svc := NewService(index, chat)

	reply, err := svc.Ask(context.Background(), "wireless headphones shipped")
	require.NoError(t, err)
	assert.Equal(t, "Your headphones are on the way.", reply)
	assert.Contains(t, chat.prompt, "Order Summary: wireless headphones shipped")
}

func TestAsk_EmptyMessage(t *testing.T) {
	svc := NewService(searchmemory.NewIndex(), &scriptedChat{})

	_, err := svc.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestAsk_NoChatModel(t *testing.T) {
	svc := NewService(searchmemory.NewIndex(), nil)

	_, err := svc.Ask(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrChatUnavailable)
}

func TestAsk_IndexFailureDegradesToEmptyContext(t *testing.T) {
	chat := &scriptedChat{reply: "Happy to help anyway."}
	svc := NewService(failingIndex{}, chat)

	reply, err := svc.Ask(context.Background(), "what is your return policy")
	require.NoError(t, err)
	assert.Equal(t, "Happy to help anyway.", reply)
	assert.Contains(t, chat.prompt, "what is your return policy")
}

func TestAsk_ChatModelFailure(t *testing.T) {
	svc := NewService(searchmemory.NewIndex(), &scriptedChat{err: errors.New("gateway timeout")})

	_, err := svc.Ask(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat model")
}
