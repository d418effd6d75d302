package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomai/ecom-api-server/internal/domains/search/domain"
	"github.com/ecomai/ecom-api-server/internal/domains/search/ports"
)

type journalIndex struct {
	ops       []string
	deleteErr error
	addErr    error
}

func (j *journalIndex) Add(_ context.Context, doc domain.Document) error {
	j.ops = append(j.ops, "add:"+doc.ID)
	return j.addErr
}

func (j *journalIndex) DeleteByMetadata(_ context.Context, key, value string) error {
	j.ops = append(j.ops, "delete:"+key+"="+value)
	return j.deleteErr
}

func (j *journalIndex) Search(context.Context, string, int, float64) ([]domain.Document, error) {
	return nil, nil
}

func request(key, value, docID string) ports.SyncRequest {
	return ports.SyncRequest{
		MetadataKey:   key,
		MetadataValue: value,
		Document:      domain.Document{ID: docID, Content: "content", Metadata: map[string]string{key: value}},
	}
}

func TestInlineIndexSync_DeleteBeforeAddPerRequest(t *testing.T) {
	index := &journalIndex{}
	sync := NewInlineIndexSync(index)

	err := sync.Sync(context.Background(), []ports.SyncRequest{
		request("productId", "7", "d1"),
		request("orderId", "ORDABCDEF1234", "d2"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"delete:productId=7",
		"add:d1",
		"delete:orderId=ORDABCDEF1234",
		"add:d2",
	}, index.ops)
}

func TestInlineIndexSync_FailedDeleteSkipsAdd(t *testing.T) {
	index := &journalIndex{deleteErr: errors.New("index down")}
	sync := NewInlineIndexSync(index)

	err := sync.Sync(context.Background(), []ports.SyncRequest{request("productId", "7", "d1")})
	require.Error(t, err)
	assert.Equal(t, []string{"delete:productId=7"}, index.ops)
}

func TestInlineIndexSync_ContinuesPastFailures(t *testing.T) {
	index := &journalIndex{addErr: errors.New("index down")}
	sync := NewInlineIndexSync(index)

	err := sync.Sync(context.Background(), []ports.SyncRequest{
		request("productId", "7", "d1"),
		request("productId", "8", "d2"),
	})
	require.Error(t, err)
	// both requests were attempted despite the first add failing
	assert.Equal(t, []string{
		"delete:productId=7",
		"add:d1",
		"delete:productId=8",
		"add:d2",
	}, index.ops)
}

func TestInlineIndexSync_Unconfigured(t *testing.T) {
	var sync *InlineIndexSync
	assert.Error(t, sync.Sync(context.Background(), nil))
}
