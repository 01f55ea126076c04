package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
)

// Message length bounds enforced before any network call is made.
const (
	MinMessageLength = 1000
	MaxMessageLength = 10000
)

// Retry and transport limits.
const (
	maxAttempts        = 3
	requestTimeout     = 30 * time.Second
	defaultBackoffBase = time.Second
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
)

// ModelParams holds the sampling parameters forwarded with every
// completion request. Nil fields keep their previously-set value when
// merged via SetModelParameters.
type ModelParams struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

// Config holds construction-time settings for the OpenRouter client.
type Config struct {
	// APIKey authenticates against OpenRouter. Required: a missing key is
	// a fatal construction error, not something retries can fix.
	APIKey string

	// BaseURL defaults to DefaultBaseURL when empty.
	BaseURL string

	// DefaultModel is the model identifier sent with every request.
	DefaultModel string

	// MaxRequestsPerMinute bounds the local outbound call rate.
	// Defaults to DefaultMaxRequestsPerMinute when non-positive.
	MaxRequestsPerMinute int

	// SiteURL is sent as the HTTP-Referer header for app attribution.
	SiteURL string
}

// Client wraps the OpenRouter chat-completion API: it builds message
// payloads, enforces a local rate limit and per-attempt deadline, retries
// transient failures with exponential backoff, and returns either the
// completion text or a typed *Error.
//
// The system message, response format, and sampling parameters are
// mutable between calls; a call in flight works on a snapshot taken when
// it started, so later setter calls never affect it.
type Client struct {
	api     *openai.Client
	model   string
	limiter *RateLimiter
	logger  *slog.Logger

	mu             sync.Mutex
	systemMessage  string
	params         ModelParams
	responseFormat *openai.ChatCompletionResponseFormat

	// backoffBase is the unit for the 2^attempt backoff schedule.
	// Tests shrink it to keep retry cases fast.
	backoffBase time.Duration
}

// NewClient creates an OpenRouter client from the given configuration.
// Returns an AUTH_ERROR when the API key is missing.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "openrouter_client"))

	if cfg.APIKey == "" {
		logger.Error("missing OpenRouter API key")
		return nil, NewError(CodeAuthentication, "OpenRouter API key is required", nil)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(baseURL, "/")
	clientConfig.HTTPClient = &http.Client{
		Transport: &refererTransport{
			siteURL: cfg.SiteURL,
			base:    http.DefaultTransport,
		},
	}

	temperature := 1.0
	topP := 1.0
	frequencyPenalty := 0.0
	presencePenalty := 0.0

	return &Client{
		api:     openai.NewClientWithConfig(clientConfig),
		model:   cfg.DefaultModel,
		limiter: NewRateLimiter(cfg.MaxRequestsPerMinute),
		logger:  logger,
		params: ModelParams{
			Temperature:      &temperature,
			TopP:             &topP,
			FrequencyPenalty: &frequencyPenalty,
			PresencePenalty:  &presencePenalty,
		},
		backoffBase: defaultBackoffBase,
	}, nil
}

// refererTransport attaches the HTTP-Referer header that OpenRouter uses
// for app attribution. Authorization and Content-Type are attached by the
// underlying API client.
type refererTransport struct {
	siteURL string
	base    http.RoundTripper
}

func (t *refererTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.siteURL != "" {
		req.Header.Set("HTTP-Referer", t.siteURL)
	}
	return t.base.RoundTrip(req)
}

// SetSystemMessage stores a system-role message prepended to every
// subsequent call's message list. Takes effect on the next call only.
func (c *Client) SetSystemMessage(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.systemMessage = message
}

// SetResponseFormat stores a JSON-schema constraint forwarded with every
// subsequent request as a strict structured-output contract. The backend
// is then expected to return JSON conforming to schema.
func (c *Client) SetResponseFormat(name string, schema json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   name,
			Strict: true,
			Schema: schema,
		},
	}
}

// SetModelParameters validates params against the documented ranges
// (temperature [0,2], top_p [0,1], frequency/presence penalty [-2,2]) and
// merges the set fields into the held parameter set. Fields left nil keep
// their previous value. On a VALIDATION_ERROR listing every violated
// field, the held parameters are unchanged.
func (c *Client) SetModelParameters(params ModelParams) error {
	var violations []string
	if params.Temperature != nil && (*params.Temperature < 0 || *params.Temperature > 2) {
		violations = append(violations, "temperature must be between 0 and 2")
	}
	if params.TopP != nil && (*params.TopP < 0 || *params.TopP > 1) {
		violations = append(violations, "top_p must be between 0 and 1")
	}
	if params.FrequencyPenalty != nil && (*params.FrequencyPenalty < -2 || *params.FrequencyPenalty > 2) {
		violations = append(violations, "frequency_penalty must be between -2 and 2")
	}
	if params.PresencePenalty != nil && (*params.PresencePenalty < -2 || *params.PresencePenalty > 2) {
		violations = append(violations, "presence_penalty must be between -2 and 2")
	}
	if len(violations) > 0 {
		return NewError(CodeValidation,
			"invalid model parameters: "+strings.Join(violations, ", "), nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if params.Temperature != nil {
		c.params.Temperature = params.Temperature
	}
	if params.TopP != nil {
		c.params.TopP = params.TopP
	}
	if params.FrequencyPenalty != nil {
		c.params.FrequencyPenalty = params.FrequencyPenalty
	}
	if params.PresencePenalty != nil {
		c.params.PresencePenalty = params.PresencePenalty
	}
	return nil
}

// snapshot returns the request-shaping state under the lock so setter
// calls made during a request never affect it.
func (c *Client) snapshot() (string, ModelParams, *openai.ChatCompletionResponseFormat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.systemMessage, c.params, c.responseFormat
}

// SendChatMessage sends userMessage to the configured model and returns
// the completion's raw text content (typically JSON the caller parses).
//
// The message length must be within [MinMessageLength, MaxMessageLength]
// characters; a violation fails immediately with a VALIDATION_ERROR and
// performs zero network calls. Transient failures are retried up to
// maxAttempts total attempts with exponential backoff (1s, 2s);
// authentication and validation errors propagate on first occurrence.
func (c *Client) SendChatMessage(ctx context.Context, userMessage string) (string, error) {
	if length := utf8.RuneCountInString(userMessage); length < MinMessageLength || length > MaxMessageLength {
		return "", NewError(CodeValidation,
			fmt.Sprintf("message length must be between %d and %d characters, got %d",
				MinMessageLength, MaxMessageLength, length), nil)
	}

	systemMessage, params, responseFormat := c.snapshot()

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemMessage != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemMessage,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	req := openai.ChatCompletionRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: responseFormat,
	}
	// The wire codec omits zero-valued sampling params; OpenRouter then
	// applies the model defaults, which match our zero semantics.
	if params.Temperature != nil {
		req.Temperature = float32(*params.Temperature)
	}
	if params.TopP != nil {
		req.TopP = float32(*params.TopP)
	}
	if params.FrequencyPenalty != nil {
		req.FrequencyPenalty = float32(*params.FrequencyPenalty)
	}
	if params.PresencePenalty != nil {
		req.PresencePenalty = float32(*params.PresencePenalty)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		content, err := c.attempt(ctx, req, attempt)
		if err == nil {
			return content, nil
		}
		lastErr = err

		var clientErr *Error
		if errors.As(err, &clientErr) && !clientErr.Retryable() {
			return "", err
		}

		if attempt == maxAttempts-1 {
			break
		}

		// delay = backoffBase * 2^attempt (1s, 2s between attempts 0,1,2)
		delay := c.backoffBase << uint(attempt)
		c.logger.InfoContext(ctx, "retrying after delay",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", NewError(CodeTimeout, "request cancelled during retry delay", ctx.Err())
		}
	}

	return "", lastErr
}

// attempt performs one rate-limited, deadline-bounded call and parses the
// completion body.
func (c *Client) attempt(ctx context.Context, req openai.ChatCompletionRequest, attempt int) (string, error) {
	if err := c.limiter.Allow(); err != nil {
		c.logger.WarnContext(ctx, "local rate limit exceeded",
			slog.Int("attempt", attempt+1))
		return "", err
	}

	c.logger.InfoContext(ctx, "sending chat completion request",
		slog.Int("attempt", attempt+1),
		slog.String("model", c.model))

	attemptCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(attemptCtx, req)
	if err != nil {
		classified := classifyTransportError(err)
		c.logger.ErrorContext(ctx, "chat completion request failed",
			slog.Int("attempt", attempt+1),
			slog.String("code", string(CodeOf(classified))),
			slog.String("error", classified.Error()))
		return "", classified
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		err := NewError(CodeResponse, "invalid response format from API", nil)
		c.logger.ErrorContext(ctx, "chat completion response malformed",
			slog.Int("attempt", attempt+1))
		return "", err
	}

	return resp.Choices[0].Message.Content, nil
}

// classifyTransportError maps transport failures to the typed taxonomy:
// deadline -> TIMEOUT_ERROR, HTTP 401 -> AUTH_ERROR, HTTP 429 ->
// RATE_LIMIT_ERROR, everything else -> RESPONSE_ERROR.
func classifyTransportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(CodeTimeout, "request timed out", err)
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusUnauthorized:
		return NewError(CodeAuthentication, "invalid API key", err)
	case http.StatusTooManyRequests:
		return NewError(CodeRateLimit, "rate limit exceeded", err)
	default:
		return NewError(CodeResponse, "API request failed", err)
	}
}
