package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/emernav/backend/internal/domain/entities"
	"github.com/emernav/backend/internal/domain/providers"
	"github.com/emernav/backend/pkg/config"
	apperrors "github.com/emernav/backend/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Identical profiles classify identically, so results are cacheable for a
// short window without affecting search quality.
const classifierCacheTTL = time.Hour

// Client implements the capability classifier on top of the OpenAI API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *tokenBucket
	cache      providers.CacheProvider
}

// NewClient creates a new OpenAI classifier client.
func NewClient(cfg *config.OpenAIConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}, nil
}

// WithBaseURL points the client at an alternative API endpoint.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// WithCache enables caching of classification results keyed by the
// rendered patient prompt.
func (c *Client) WithCache(cache providers.CacheProvider) *Client {
	c.cache = cache
	return c
}

// Close stops the rate limiter's refill goroutine.
func (c *Client) Close() {
	if c.limiter != nil {
		c.limiter.Close()
	}
}

type responseContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responseOutput struct {
	Content []responseContent `json:"content"`
}

type responseEnvelope struct {
	Output []responseOutput `json:"output"`
}

// filterPayload is the JSON schema the model is asked to produce.
type filterPayload struct {
	BedCategory             []string `json:"bedCategory"`
	AdmissionCategory       []string `json:"admissionCategory"`
	SevereConditionCategory []string `json:"severeConditionCategory"`
	EquipmentCategory       []string `json:"equipmentCategory"`
	Reasoning               string   `json:"reasoning"`
}

// Classify maps a patient profile to the capability filter codes the
// patient requires. Model output that cannot be parsed degrades to the
// conservative generic-bed filter rather than failing the search.
func (c *Client) Classify(ctx context.Context, profile *entities.PatientProfile) (*entities.ClassifierResult, error) {
	if profile == nil {
		return nil, errors.New("patient profile is required")
	}

	if cached := c.cachedResult(ctx, profile); cached != nil {
		return cached, nil
	}

	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			recordClassifierMetric(ctx, c.model, 0, 0, err)
			return nil, apperrors.NewClassifierUnavailableError("classifier rate limit wait aborted", err)
		}
		recordClassifierRateLimitWait(ctx, c.model, time.Since(waitStart))
	}

	payload := map[string]interface{}{
		"model": c.model,
		"input": []map[string]string{
			{"role": "system", "content": classifierSystemPrompt()},
			{"role": "user", "content": buildPatientPrompt(profile)},
		},
		"temperature":       0.3,
		"max_output_tokens": 1000,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordClassifierMetric(ctx, c.model, 0, time.Since(start), err)
		return nil, apperrors.NewClassifierUnavailableError("classifier request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordClassifierMetric(ctx, c.model, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))
		return nil, apperrors.NewClassifierUnavailableError(
			fmt.Sprintf("classifier returned status %d", resp.StatusCode), nil)
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordClassifierMetric(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return nil, apperrors.NewClassifierUnavailableError("failed to decode classifier response", err)
	}

	var text string
	for _, out := range envelope.Output {
		for _, content := range out.Content {
			if content.Type == "output_text" && content.Text != "" {
				text = content.Text
				break
			}
		}
		if text != "" {
			break
		}
	}

	if text == "" {
		recordClassifierMetric(ctx, c.model, resp.StatusCode, time.Since(start), errors.New("missing output text"))
		return nil, apperrors.NewClassifierUnavailableError("classifier response missing output text", nil)
	}

	recordClassifierMetric(ctx, c.model, resp.StatusCode, time.Since(start), nil)
	result := parseFilterResponse(text)
	c.storeResult(ctx, profile, result)
	return result, nil
}

func classifierCacheKey(profile *entities.PatientProfile) string {
	h := fnv.New64a()
	io.WriteString(h, buildPatientPrompt(profile))
	return fmt.Sprintf("classifier:%x", h.Sum64())
}

func (c *Client) cachedResult(ctx context.Context, profile *entities.PatientProfile) *entities.ClassifierResult {
	if c.cache == nil {
		return nil
	}

	data, err := c.cache.Get(ctx, classifierCacheKey(profile))
	if err != nil || data == nil {
		return nil
	}

	var result entities.ClassifierResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

func (c *Client) storeResult(ctx context.Context, profile *entities.PatientProfile, result *entities.ClassifierResult) {
	if c.cache == nil || result == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	// Cache failures only cost a repeat API call.
	_ = c.cache.Set(ctx, classifierCacheKey(profile), data, classifierCacheTTL)
}

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// parseFilterResponse extracts the filter JSON from raw model output. Parse
// failures and empty bed categories fall back to the generic-bed default so
// a malformed model answer still produces a usable search.
func parseFilterResponse(text string) *entities.ClassifierResult {
	cleaned := text
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	match := jsonObjectPattern.FindString(cleaned)
	if match == "" {
		return defaultFilterResult("classifier output contained no JSON object")
	}

	var parsed filterPayload
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return defaultFilterResult(fmt.Sprintf("classifier output could not be decoded: %v", err))
	}

	filter, rejected := entities.CapabilityFilterRequest{
		BedCategory:             parsed.BedCategory,
		AdmissionCategory:       parsed.AdmissionCategory,
		SevereConditionCategory: parsed.SevereConditionCategory,
		EquipmentCategory:       parsed.EquipmentCategory,
	}.Sanitize()

	reasoning := parsed.Reasoning
	if len(rejected) > 0 {
		reasoning = fmt.Sprintf("%s (ignored unknown codes: %s)", reasoning, strings.Join(rejected, ", "))
	}
	if len(filter.BedCategory) == 0 {
		filter.BedCategory = []string{entities.CodeGenericBed}
		reasoning += " (no bed category selected; defaulting to general emergency bay)"
	}

	return &entities.ClassifierResult{
		Filter:    filter,
		Reasoning: reasoning,
	}
}

func defaultFilterResult(note string) *entities.ClassifierResult {
	return &entities.ClassifierResult{
		Filter: entities.CapabilityFilterRequest{
			BedCategory: []string{entities.CodeGenericBed},
		},
		Reasoning: "default generic-bed filter applied: " + note,
	}
}

func newTokenBucket(rpm int, burst int) *tokenBucket {
	if rpm == 0 {
		rpm = 60
	}
	if rpm < 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}
	return newTokenBucketWithRate(rpm, burst)
}

type tokenBucket struct {
	tokens   chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

func newTokenBucketWithRate(rpm int, burst int) *tokenBucket {
	bucket := &tokenBucket{
		tokens: make(chan struct{}, burst),
		stop:   make(chan struct{}),
	}

	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case bucket.tokens <- struct{}{}:
				default:
				}
			case <-bucket.stop:
				return
			}
		}
	}()

	return bucket
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}

// Close stops the refill goroutine. Tokens already in the bucket remain
// usable; Wait blocks forever once they are spent.
func (b *tokenBucket) Close() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
}

type classifierMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
	rateLimitWait   metric.Float64Histogram
}

var (
	classifierMetricsOnce sync.Once
	classifierMetricsInit bool
	classifierMetricsInst classifierMetrics
)

func ensureClassifierMetrics() {
	classifierMetricsOnce.Do(initClassifierMetrics)
}

func initClassifierMetrics() {
	meter := otel.Meter("github.com/emernav/backend/openai")

	requestCount, err := meter.Int64Counter(
		"ai.classifier.request.count",
		metric.WithDescription("Number of classifier requests"),
	)
	if err != nil {
		return
	}
	requestDuration, err := meter.Float64Histogram(
		"ai.classifier.request.duration",
		metric.WithDescription("Classifier request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}
	requestErrors, err := meter.Int64Counter(
		"ai.classifier.request.errors",
		metric.WithDescription("Number of classifier request errors"),
	)
	if err != nil {
		return
	}
	rateLimitWait, err := meter.Float64Histogram(
		"ai.classifier.rate_limit.wait",
		metric.WithDescription("Time spent waiting for the classifier rate limiter in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}

	classifierMetricsInst = classifierMetrics{
		requestCount:    requestCount,
		requestDuration: requestDuration,
		requestErrors:   requestErrors,
		rateLimitWait:   rateLimitWait,
	}
	classifierMetricsInit = true
}

func recordClassifierMetric(ctx context.Context, model string, statusCode int, duration time.Duration, err error) {
	ensureClassifierMetrics()
	if !classifierMetricsInit {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	classifierMetricsInst.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	classifierMetricsInst.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		classifierMetricsInst.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func recordClassifierRateLimitWait(ctx context.Context, model string, wait time.Duration) {
	ensureClassifierMetrics()
	if !classifierMetricsInit {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", model),
	}
	classifierMetricsInst.rateLimitWait.Record(ctx, float64(wait.Milliseconds()), metric.WithAttributes(attrs...))
}
