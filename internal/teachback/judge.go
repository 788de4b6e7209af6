package teachback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-1.5-flash"
	DefaultJudgeTimeout  = 20 * time.Second

	judgeTemperature     = 0.3
	judgeMaxOutputTokens = 256
)

var (
	ErrJudgeNotConfigured = errors.New("judge api key not configured")
	ErrEmptyResponse      = errors.New("judge returned no text")
)

// Judge grades an explanation and returns the model's raw text answer
type Judge interface {
	Evaluate(ctx context.Context, req Request) (string, error)
}

// GeminiConfig configures the Gemini generateContent client
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// GeminiJudge calls the Gemini generateContent endpoint
type GeminiJudge struct {
	cfg GeminiConfig
}

// NewGeminiJudge builds a judge, filling in defaults for anything left empty
func NewGeminiJudge(cfg GeminiConfig) *GeminiJudge {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultJudgeTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &GeminiJudge{cfg: cfg}
}

// Configured reports whether an API key is available
func (j *GeminiJudge) Configured() bool {
	return strings.TrimSpace(j.cfg.APIKey) != ""
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

// Evaluate sends the grading prompt and returns the first candidate's text
func (j *GeminiJudge) Evaluate(ctx context.Context, req Request) (string, error) {
	if !j.Configured() {
		return "", ErrJudgeNotConfigured
	}

	body := geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: BuildPrompt(req)}}}}}
	body.GenerationConfig.Temperature = judgeTemperature
	body.GenerationConfig.MaxOutputTokens = judgeMaxOutputTokens

	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal judge request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", j.cfg.BaseURL, j.cfg.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build judge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// Key goes in a header so it never shows up in URL-bearing errors
	httpReq.Header.Set("x-goog-api-key", j.cfg.APIKey)

	res, err := j.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("judge request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		errBody, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return "", fmt.Errorf("read judge error body: %w", err)
		}
		return "", fmt.Errorf("judge request status %d: %s", res.StatusCode, strings.TrimSpace(string(errBody)))
	}

	payload, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read judge response: %w", err)
	}
	if !gjson.ValidBytes(payload) {
		return "", fmt.Errorf("decode judge response: invalid json")
	}

	text := strings.TrimSpace(gjson.GetBytes(payload, "candidates.0.content.parts.0.text").String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
