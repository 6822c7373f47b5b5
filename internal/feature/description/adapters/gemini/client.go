// Package gemini はGoogle Gemini APIを使用したテキスト生成クライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"descripto_backend/internal/feature/description/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.0-flash-lite"
	// DefaultTimeout は1リクエストあたりのデフォルトタイムアウトです。
	DefaultTimeout = 30 * time.Second
)

// ErrMissingAPIKey is returned by NewGeminiGenerator when no API key is given.
var ErrMissingAPIKey = errors.New("missing Google API key")

// GeminiGenerator はGoogle Gemini APIを使用して商品説明文を生成します。
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// GeminiGeneratorがTextGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.TextGenerator = (*GeminiGenerator)(nil)

// Config はGeminiGeneratorの設定です。
type Config struct {
	APIKey string
	// Model が空の場合はDefaultModelを使用します。
	Model string
	// Timeout が0以下の場合はDefaultTimeoutを使用します。
	Timeout time.Duration
	// BaseURL はAPIエンドポイントの上書き用です。空の場合はSDKの既定値を使用します。
	BaseURL string
}

// NewGeminiGenerator はAPIキーを使用してGeminiGeneratorの新しいインスタンスを生成します。
func NewGeminiGenerator(ctx context.Context, cfg Config) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g := &GeminiGenerator{client: client, model: cfg.Model, timeout: cfg.Timeout}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	return g, nil
}

// Generate はプロンプトを1回だけ送信し、応答テキストを返します。リトライは行いません。
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}
