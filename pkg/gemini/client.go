package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/metrics"
)

const (
	defaultBaseURL              = "https://generativelanguage.googleapis.com"
	defaultModel                = "gemini-2.5-flash"
	responseBodyReadLimit int64 = 4096
)

// Roles used in conversation turns.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

var errAPIKeyRequired = errors.New("gemini api key is required")

// Part is a single text fragment of a turn.
type Part struct {
	Text string `json:"text"`
}

// Content is one conversation turn. The same shape is echoed to clients as chat history.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Text concatenates the text parts of a turn.
func (c Content) Text() string {
	var b strings.Builder
	for _, p := range c.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// TextContent builds a single-part turn.
func TextContent(role, text string) Content {
	return Content{Role: role, Parts: []Part{{Text: text}}}
}

// GenerateRequest is the input to GenerateContent.
type GenerateRequest struct {
	SystemInstruction string
	Contents          []Content
	Temperature       float64
}

// Client calls the Generative Language generateContent endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	metrics    *metrics.DependencyMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

func WithModel(model string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(model)
		if trimmed != "" {
			c.model = trimmed
		}
	}
}

func WithMetrics(m *metrics.DependencyMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}
	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

type generatePayload struct {
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
	Contents          []Content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// GenerateContent sends the conversation and returns the first candidate's text.
func (c *Client) GenerateContent(ctx context.Context, req GenerateRequest) (_ string, err error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gemini client not configured")
	}
	if len(req.Contents) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "contents are required")
	}
	defer c.metrics.Track(metrics.DependencyGemini, time.Now(), &err)

	payload := generatePayload{
		Contents:         req.Contents,
		GenerationConfig: generationConfig{Temperature: req.Temperature},
	}
	if strings.TrimSpace(req.SystemInstruction) != "" {
		system := Content{Parts: []Part{{Text: req.SystemInstruction}}}
		payload.SystemInstruction = &system
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal gemini request")
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(c.baseURL, "/"), url.PathEscape(c.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build gemini request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute gemini request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "gemini request failed")
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode gemini response")
	}
	if len(decoded.Candidates) == 0 {
		reason := "no candidates"
		if decoded.PromptFeedback != nil && decoded.PromptFeedback.BlockReason != "" {
			reason = "blocked: " + decoded.PromptFeedback.BlockReason
		}
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gemini returned no reply").WithDetails(map[string]any{"reason": reason})
	}
	return decoded.Candidates[0].Content.Text(), nil
}
