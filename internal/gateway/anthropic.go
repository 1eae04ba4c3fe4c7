package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/planweave/internal/log"
)

const (
	defaultBaseURL   = "https://api.anthropic.com/v1"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096
	apiVersion       = "2023-06-01"
)

// AnthropicConfig configures the Anthropic-backed gateway
type AnthropicConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// AnthropicGateway implements Gateway against the Anthropic Messages API
type AnthropicGateway struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
	client    *http.Client
	logger    *log.Logger
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Model   string             `json:"model"`
	Usage   anthropicUsage     `json:"usage"`
	Error   *anthropicAPIError `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicAPIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewAnthropicGateway creates a gateway backed by the Anthropic API
func NewAnthropicGateway(config AnthropicConfig, logger *log.Logger) (*AnthropicGateway, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = defaultMaxTokens
	}
	if config.Timeout <= 0 {
		config.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}

	return &AnthropicGateway{
		apiKey:    config.APIKey,
		baseURL:   config.BaseURL,
		model:     config.Model,
		maxTokens: config.MaxTokens,
		client:    &http.Client{Timeout: config.Timeout},
		logger:    logger,
	}, nil
}

// Submit implements Gateway.Submit
func (g *AnthropicGateway) Submit(ctx context.Context, req *Request) (string, error) {
	start := time.Now()
	req.Progress(0.1)

	maxTokens := g.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	body, err := json.Marshal(&anthropicRequest{
		Model:       g.model,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
		System:      req.SystemPrompt,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", g.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	req.Progress(0.3)

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return "", g.classifyTransportError(ctx, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", &Failure{Kind: FailureNetwork, Message: "read response body", Cause: err}
	}

	req.Progress(0.8)

	if httpResp.StatusCode != http.StatusOK {
		return "", g.classifyStatus(httpResp, respBody)
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(respBody, &anthResp); err != nil {
		return "", &Failure{Kind: FailureServerError, Message: "unmarshal response", Cause: err}
	}

	text := ""
	if len(anthResp.Content) > 0 {
		text = anthResp.Content[0].Text
	}

	g.logger.Debug("anthropic request completed",
		"model", anthResp.Model,
		"input_tokens", anthResp.Usage.InputTokens,
		"output_tokens", anthResp.Usage.OutputTokens,
		"latency", time.Since(start).String(),
	)
	req.Progress(1.0)
	return text, nil
}

func (g *AnthropicGateway) classifyTransportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return &Failure{Kind: FailureCancelled, Message: "request cancelled", Cause: err}
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &Failure{Kind: FailureTimeout, Message: "request deadline exceeded", Cause: err}
	default:
		return &Failure{Kind: FailureNetwork, Message: "send request", Cause: err}
	}
}

func (g *AnthropicGateway) classifyStatus(resp *http.Response, body []byte) error {
	message := fmt.Sprintf("http %d", resp.StatusCode)
	var apiResp anthropicResponse
	if err := json.Unmarshal(body, &apiResp); err == nil && apiResp.Error != nil {
		message = apiResp.Error.Message
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &Failure{
			Kind:       FailureRateLimited,
			Message:    message,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode >= 500:
		return &Failure{Kind: FailureServerError, Message: message, StatusCode: resp.StatusCode}
	default:
		// 4xx other than 429 means the request itself is bad;
		// retrying the same payload will not help.
		return &Failure{Kind: FailureServerError, Message: message, StatusCode: resp.StatusCode}
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
