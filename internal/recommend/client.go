// Package recommend talks to the remote job recommendation service.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobchat/internal/utils"
)

const (
	DefaultURL       = "https://adosh0qgoa.execute-api.eu-central-1.amazonaws.com/prod/recommend"
	defaultUserAgent = "spigell/jobchat"
	defaultTimeout   = 60 * time.Second
	contentType      = "application/json"
	contentEncoding  = "gzip"
	siteKeyHeader    = "X-Site-Key"
	// maxErrorBody is how much of a failed response body ends up in the error.
	maxErrorBody = 200
)

var (
	ErrNotJSON         = errors.New("response is not JSON")
	ErrUnexpectedShape = errors.New("unexpected response shape")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, utils.TruncateForLog(e.Body, maxErrorBody))
}

type Config struct {
	URL        string
	SiteKey    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	url        string
	siteKey    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(cfg Config, logger *zap.Logger) (*Client, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, errors.New("recommendation service url is required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		url:        url,
		siteKey:    strings.TrimSpace(cfg.SiteKey),
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Recommend sends one search request and returns the matches in service order.
func (c *Client) Recommend(ctx context.Context, request Request) ([]Match, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	c.setHeaders(req)

	c.logger.Debug("make request", zap.String("url", c.url), zap.Int("payload_length", len(payload)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	data, err := utils.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	matches, err := decodeMatches(data)
	if err != nil {
		c.logger.Debug("undecodable response", zap.String("body", utils.TruncateForLog(string(data), maxErrorBody)))
		return nil, err
	}

	c.logger.Debug("got response from recommendation service", zap.Int("matches", len(matches)))

	return matches, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("User-Agent", c.userAgent)
	if c.siteKey != "" {
		req.Header.Set(siteKeyHeader, c.siteKey)
	}
}

// decodeMatches accepts either {"matches": [...]} or an API gateway envelope whose
// "body" field holds that object as a JSON string. A missing matches key means no matches.
func decodeMatches(data []byte) ([]Match, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, ErrNotJSON
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T", ErrUnexpectedShape, payload)
	}

	if body, ok := obj["body"].(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(body), &inner); err != nil {
			return nil, fmt.Errorf("envelope body: %w", ErrNotJSON)
		}
		if obj, ok = inner.(map[string]any); !ok {
			return nil, fmt.Errorf("%w: envelope body is %T", ErrUnexpectedShape, inner)
		}
	}

	raw, ok := obj["matches"]
	if !ok || raw == nil {
		return nil, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: matches is %T", ErrUnexpectedShape, raw)
	}

	var matches []Match
	cfg := &mapstructure.DecoderConfig{
		Result:           &matches,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedShape, err)
	}

	return matches, nil
}
