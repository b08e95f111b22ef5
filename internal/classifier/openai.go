package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"reviewlens/internal/analytics"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"
	DefaultTimeout = 30 * time.Second
)

// Config for the OpenAI backed classifier.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenAIClient implements Classifier with the chat completions API.
type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Classifier = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client. Missing model, base URL or timeout fall back to defaults.
func NewOpenAIClient(cfg Config, logger *slog.Logger) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// AnalyzeReview labels one review. Any transport failure, timeout or response that
// does not match the expected shape fails the whole call.
func (c *OpenAIClient) AnalyzeReview(ctx context.Context, text string) (*ReviewAnalysis, error) {
	const op = "analyze review"

	content, call, err := c.complete(ctx, op, analyzeReviewPrompt, text, true)
	if err != nil {
		return nil, err
	}

	var raw struct {
		AspectScores []struct {
			Aspect    string   `json:"aspect"`
			Sentiment string   `json:"sentiment"`
			Score     *float64 `json:"score"`
			Reasoning string   `json:"reasoning"`
		} `json:"aspectScores"`
		OverallSentiment string   `json:"overallSentiment"`
		KeyPoints        []string `json:"keyPoints"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, newError(op, ErrMalformedResponse, err)
	}

	overall, ok := analytics.ParseSentiment(raw.OverallSentiment)
	if !ok {
		return nil, newError(op, ErrMalformedResponse, fmt.Errorf("unknown overall sentiment %q", raw.OverallSentiment))
	}

	result := &ReviewAnalysis{
		AspectScores:     make([]AspectAnalysis, 0, len(raw.AspectScores)),
		OverallSentiment: overall,
		KeyPoints:        raw.KeyPoints,
		Call:             call,
	}
	seen := make(map[analytics.Aspect]bool)
	for _, s := range raw.AspectScores {
		aspect, ok := analytics.ParseAspect(s.Aspect)
		if !ok {
			return nil, newError(op, ErrMalformedResponse, fmt.Errorf("unknown aspect %q", s.Aspect))
		}
		if seen[aspect] {
			return nil, newError(op, ErrMalformedResponse, fmt.Errorf("aspect %s reported twice", aspect))
		}
		seen[aspect] = true

		sentiment, ok := analytics.ParseSentiment(s.Sentiment)
		if !ok {
			return nil, newError(op, ErrMalformedResponse, fmt.Errorf("unknown sentiment %q for %s", s.Sentiment, aspect))
		}
		if s.Score == nil || *s.Score < 0 || *s.Score > 100 {
			return nil, newError(op, ErrMalformedResponse, fmt.Errorf("score for %s missing or outside [0,100]", aspect))
		}

		result.AspectScores = append(result.AspectScores, AspectAnalysis{
			Aspect:    aspect,
			Sentiment: sentiment,
			Score:     *s.Score,
			Reasoning: s.Reasoning,
		})
	}
	if result.KeyPoints == nil {
		result.KeyPoints = []string{}
	}

	return result, nil
}

// GenerateInsight drafts one insight from up to maxInsightReviews review texts.
func (c *OpenAIClient) GenerateInsight(ctx context.Context, reviewTexts []string, aspects []analytics.Aspect) (*InsightDraft, error) {
	const op = "generate insight"

	content, call, err := c.complete(ctx, op, insightSystemPrompt(aspects), insightUserPrompt(reviewTexts), true)
	if err != nil {
		return nil, err
	}

	var draft InsightDraft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, newError(op, ErrMalformedResponse, err)
	}
	draft.Severity = Severity(strings.ToUpper(strings.TrimSpace(string(draft.Severity))))
	switch draft.Severity {
	case SeverityLow, SeverityMedium, SeverityHigh:
	default:
		return nil, newError(op, ErrMalformedResponse, fmt.Errorf("unknown severity %q", draft.Severity))
	}
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Summary) == "" {
		return nil, newError(op, ErrMalformedResponse, errors.New("insight without title or summary"))
	}
	draft.Call = call

	return &draft, nil
}

// WeeklyReport writes a free-text report.
func (c *OpenAIClient) WeeklyReport(ctx context.Context, in ReportInput) (*Report, error) {
	const op = "weekly report"

	content, call, err := c.complete(ctx, op, weeklyReportPrompt, weeklyReportUserPrompt(in), false)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, newError(op, ErrMalformedResponse, errors.New("empty report"))
	}

	return &Report{Text: content, Call: call}, nil
}

// complete performs one chat completion bounded by the client timeout.
func (c *OpenAIClient) complete(ctx context.Context, op, system, user string, jsonMode bool) (string, CallInfo, error) {
	call := CallInfo{Model: c.model, Prompt: user}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	if jsonMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", call, newError(op, ErrUnavailable, fmt.Errorf("marshalling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", call, newError(op, ErrUnavailable, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", call, newError(op, transportKind(ctx, err), err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", call, newError(op, transportKind(ctx, err), fmt.Errorf("reading response: %w", err))
	}

	c.logger.DebugContext(ctx, "classifier call finished",
		"op", op, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return "", call, newError(op, ErrUnavailable,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(respBody), 200)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", call, newError(op, ErrMalformedResponse, fmt.Errorf("decoding completion: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", call, newError(op, ErrMalformedResponse, errors.New("completion without choices"))
	}

	content := parsed.Choices[0].Message.Content
	call.Response = content
	call.TokensIn = parsed.Usage.PromptTokens
	call.TokensOut = parsed.Usage.CompletionTokens

	return content, call, nil
}

func transportKind(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return ErrUnavailable
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
