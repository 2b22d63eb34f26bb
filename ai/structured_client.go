package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"adept/internal/errors"
)

// StructuredClient provides typed JSON responses from generative model calls.
// T is the shape the model's text output must parse into.
type StructuredClient[T any] struct {
	GeminiClient *GeminiClient
}

// GeminiClient holds connection settings for the Gemini generateContent API
type GeminiClient struct {
	APIKey     string
	BaseURL    string // e.g. https://generativelanguage.googleapis.com/v1beta
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Schema declares the required output shape sent with each request.
// Field names follow the Gemini generationConfig.responseSchema wire format.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// StringSchema declares a string-typed field
func StringSchema() *Schema {
	return &Schema{Type: "STRING"}
}

// StringArraySchema declares an array-of-strings field
func StringArraySchema() *Schema {
	return &Schema{Type: "ARRAY", Items: StringSchema()}
}

// ObjectSchema declares an object with the given properties, all required
func ObjectSchema(properties map[string]*Schema, required []string) *Schema {
	return &Schema{Type: "OBJECT", Properties: properties, Required: required}
}

// GenerateRequest describes one model call
type GenerateRequest struct {
	Model  string
	Prompt string
	Schema *Schema

	// Thinking enables the extended-reasoning configuration. When set,
	// maxOutputTokens must stay unset or the thought budget truncates output.
	Thinking       bool
	ThinkingBudget int
}

// NewStructuredClient creates a structured client for the Gemini API
func NewStructuredClient[T any](apiKey, baseURL string, timeout time.Duration) *StructuredClient[T] {
	return &StructuredClient[T]{
		GeminiClient: &GeminiClient{
			APIKey:     apiKey,
			BaseURL:    baseURL,
			Timeout:    timeout,
			HTTPClient: &http.Client{Timeout: timeout},
		},
	}
}

// Gemini generateContent wire types

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiThinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string                `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema               `json:"responseSchema,omitempty"`
	ThinkingConfig   *geminiThinkingConfig `json:"thinkingConfig,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GetJsonResponse makes a typed model call and parses the JSON text output.
// One attempt only: resubmission is the caller's decision.
func (client *StructuredClient[T]) GetJsonResponse(ctx context.Context, req GenerateRequest) (*T, error) {
	if client.GeminiClient.APIKey == "" {
		// Fail fast: no network call without a credential
		return nil, errors.MissingCredential("GEMINI_API_KEY is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, client.GeminiClient.Timeout)
	defer cancel()

	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   req.Schema,
		},
	}
	if req.Thinking && req.ThinkingBudget > 0 {
		body.GenerationConfig.ThinkingConfig = &geminiThinkingConfig{ThinkingBudget: req.ThinkingBudget}
	}

	log.Printf("[StructuredClient] Sending request - model=%s, promptLength=%d, thinking=%v",
		req.Model, len(req.Prompt), req.Thinking)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", client.GeminiClient.BaseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", client.GeminiClient.APIKey)

	resp, err := client.GeminiClient.HTTPClient.Do(httpReq)
	if err != nil {
		log.Printf("[StructuredClient] Transport error for model %s: %v", req.Model, err)
		return nil, errors.ServiceUnavailable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ServiceUnavailable(err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, truncate(string(raw), 500))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			log.Printf("[StructuredClient] Auth failure (status %d)", resp.StatusCode)
			return nil, errors.WithCode(errors.CodeAuthError, apiErr)
		default:
			log.Printf("[StructuredClient] Service failure (status %d)", resp.StatusCode)
			return nil, errors.ServiceUnavailable(apiErr)
		}
	}

	var envelope geminiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.MalformedResponse(fmt.Errorf("unreadable response envelope: %w", err))
	}

	text := collectText(envelope)
	if text == "" {
		log.Printf("[StructuredClient] Empty response from model %s", req.Model)
		return nil, errors.EmptyResponse()
	}

	log.Printf("[StructuredClient] Raw content length: %d bytes", len(text))

	// The model is asked for JSON, but the text may still carry fences or
	// surrounding prose. Recover the payload before parsing.
	content := ExtractJSON(text)

	var result T
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		log.Printf("[StructuredClient] Failed to parse model output: %v", err)
		return nil, errors.MalformedResponse(fmt.Errorf("parsing model output: %w", err))
	}

	log.Printf("[StructuredClient] Parsed structured response from model %s", req.Model)
	return &result, nil
}

// collectText joins the text parts of the first candidate
func collectText(envelope geminiResponse) string {
	if len(envelope.Candidates) == 0 {
		return ""
	}
	var buf bytes.Buffer
	for _, part := range envelope.Candidates[0].Content.Parts {
		buf.WriteString(part.Text)
	}
	return buf.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
