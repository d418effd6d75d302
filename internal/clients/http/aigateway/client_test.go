package aigateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var got struct {
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "describe a widget", got.Prompt)
		json.NewEncoder(w).Encode(map[string]string{"text": "A fine widget."})
	}))
	defer server.Close()

	client, err := New(server.URL, "secret", nil)
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), "describe a widget")
	require.NoError(t, err)
	assert.Equal(t, "A fine widget.", text)
}

func TestComplete_NoAPIKeyOmitsHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	defer server.Close()

	client, err := New(server.URL, "", nil)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "hello")
	require.NoError(t, err)
}

func TestGenerate(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G'}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"image": base64.StdEncoding.EncodeToString(raw)})
	}))
	defer server.Close()

	client, err := New(server.URL, "secret", nil)
	require.NoError(t, err)

	image, err := client.Generate(context.Background(), "a widget on a white background")
	require.NoError(t, err)
	assert.Equal(t, raw, image)
}

func TestGenerate_InvalidBase64(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"image": "not base64!!"})
	}))
	defer server.Close()

	client, err := New(server.URL, "secret", nil)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "a widget")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode generated image")
}

func TestErrorResponseIncludesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"message": "rate limited"})
	}))
	defer server.Close()

	client, err := New(server.URL, "secret", nil)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
