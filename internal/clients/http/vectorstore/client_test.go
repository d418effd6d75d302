package vectorstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDocument(t *testing.T) {
	var got Document
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/documents", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(server.URL, nil)
	require.NoError(t, err)

	doc := Document{ID: "d1", Content: "Product Name: Widget", Metadata: map[string]string{"productId": "7"}}
	require.NoError(t, client.AddDocument(context.Background(), doc))
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, "7", got.Metadata["productId"])
}

func TestAddDocument_MissingID(t *testing.T) {
	client, err := New("http://localhost:0", nil)
	require.NoError(t, err)
	assert.Error(t, client.AddDocument(context.Background(), Document{Content: "text"}))
}

func TestDeleteByMetadata(t *testing.T) {
	var got struct {
		Filter map[string]string `json:"filter"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/delete", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := New(server.URL, nil)
	require.NoError(t, err)

	require.NoError(t, client.DeleteByMetadata(context.Background(), "productId", "7"))
	assert.Equal(t, map[string]string{"productId": "7"}, got.Filter)
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		var got struct {
			Query    string  `json:"query"`
			TopK     int     `json:"topK"`
			MinScore float64 `json:"minScore"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "widgets", got.Query)
		assert.Equal(t, 5, got.TopK)
		assert.InDelta(t, 0.7, got.MinScore, 1e-9)
		json.NewEncoder(w).Encode(map[string]any{
			"documents": []Document{{ID: "d1", Content: "Product Name: Widget", Score: 0.92}},
		})
	}))
	defer server.Close()

	client, err := New(server.URL, nil)
	require.NoError(t, err)

	docs, err := client.Search(context.Background(), "widgets", 5, 0.7)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "d1", docs[0].ID)
	assert.InDelta(t, 0.92, docs[0].Score, 1e-9)
}

func TestErrorResponseIncludesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"message": "index rebuilding"})
	}))
	defer server.Close()

	client, err := New(server.URL, nil)
	require.NoError(t, err)

	err = client.AddDocument(context.Background(), Document{ID: "d1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index rebuilding")
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("   ", nil)
	assert.Error(t, err)
}
