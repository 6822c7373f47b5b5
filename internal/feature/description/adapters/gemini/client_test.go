package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiGenerator_MissingAPIKey(t *testing.T) {
	g, err := NewGeminiGenerator(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Nil(t, g)
}

func TestGeminiGenerator_Generate(t *testing.T) {
	var gotPath, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
			gotPrompt = body.Contents[0].Parts[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"First line\nSecond line"}]}}]}`))
	}))
	defer srv.Close()

	g, err := NewGeminiGenerator(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	text, err := g.Generate(context.Background(), "describe a mug")
	require.NoError(t, err)

	assert.Equal(t, "First line\nSecond line", text)
	assert.Equal(t, "describe a mug", gotPrompt)
	assert.True(t, strings.HasSuffix(gotPath, "models/"+DefaultModel+":generateContent"), gotPath)
}

func TestGeminiGenerator_GenerateUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	g, err := NewGeminiGenerator(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "describe a mug")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini API request failed")
}
