package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
	log        *zap.Logger
}

type Option func(*GeminiClient)

func WithHTTPClient(hc *http.Client) Option { return func(c *GeminiClient) { c.httpClient = hc } }
func WithRetry(rc RetryConfig) Option       { return func(c *GeminiClient) { c.retry = rc } }
func WithLogger(l *zap.Logger) Option       { return func(c *GeminiClient) { c.log = l } }

func NewGeminiClient(apiKey, model, baseURL string, opts ...Option) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &GeminiClient{
		apiKey:     strings.TrimSpace(apiKey),
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		retry:      DefaultRetryConfig(),
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *GeminiClient) Configured() bool { return c != nil && c.apiKey != "" }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
}

// Generate sends one single-turn prompt. It returns ErrNotConfigured when no
// key is set and a *CallError for any transport, status or decoding failure.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	body, err := sonic.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", &CallError{Err: err}
	}

	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)
		return c.httpClient.Do(req)
	})
	if err != nil {
		var ce *CallError
		if errors.As(err, &ce) {
			return "", ce
		}
		return "", &CallError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &CallError{Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &CallError{Status: resp.StatusCode, Err: fmt.Errorf("%s", bytes.TrimSpace(raw))}
	}

	var out generateResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return "", &CallError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(out.Candidates) == 0 {
		return "", &CallError{Status: resp.StatusCode, Err: errors.New("no candidates")}
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &CallError{Status: resp.StatusCode, Err: errors.New("empty response")}
	}
	return text, nil
}
