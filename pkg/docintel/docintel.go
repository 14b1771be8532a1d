package docintel

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/invoxhq/invox/pkg/extract"

	"github.com/bluele/gcache"
	cblog "github.com/charmbracelet/log"
)

const (
	// EnvEndpoint and EnvKey hold the layout analysis service credentials.
	EnvEndpoint = "VISION_ENDPOINT"
	EnvKey      = "VISION_KEY"

	apiVersion = "2024-02-29-preview"
	modelID    = "prebuilt-layout"

	defaultCacheSize    = 1_000
	defaultCacheTTL     = 1 * time.Hour
	defaultPollInterval = 2 * time.Second
)

// ErrMissingCredentials is returned when the endpoint or key is absent.
var ErrMissingCredentials = errors.New("document intelligence credentials not found")

// Config holds configuration settings for the layout analysis client.
//
// Endpoint and Key fall back to the VISION_ENDPOINT and VISION_KEY
// environment variables when empty.
type Config struct {
	Endpoint     string
	Key          string
	CacheSize    int
	CacheTTL     time.Duration
	PollInterval time.Duration
	HTTPClient   *http.Client
	Logger       *cblog.Logger
}

// Client analyzes document layout via the document intelligence REST API.
// Analysis results are cached in memory by document content hash, so
// re-analyzing an identical document within the TTL skips the service call.
type Client struct {
	endpoint     string
	key          string
	pollInterval time.Duration
	httpClient   *http.Client
	cache        gcache.Cache
	ttl          time.Duration
	logger       *cblog.Logger
}

// New creates a new Client with the specified configuration.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = os.Getenv(EnvEndpoint)
	}
	if cfg.Key == "" {
		cfg.Key = os.Getenv(EnvKey)
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = cblog.Default()
	}

	return &Client{
		endpoint:     cfg.Endpoint,
		key:          cfg.Key,
		pollInterval: cfg.PollInterval,
		httpClient:   cfg.HTTPClient,
		cache:        gcache.New(cfg.CacheSize).LFU().Build(),
		ttl:          cfg.CacheTTL,
		logger:       cfg.Logger,
	}
}

type analyzeOperation struct {
	Status        string          `json:"status"`
	AnalyzeResult json.RawMessage `json:"analyzeResult"`
	Error         *operationError `json:"error"`
}

type operationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *operationError) String() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Analyze submits the document to the prebuilt-layout model and waits for
// the analysis result.
func (c *Client) Analyze(ctx context.Context, doc []byte) (*extract.AnalyzeResult, error) {
	if c.endpoint == "" || c.key == "" {
		c.logger.Error("document intelligence credentials not found")
		return nil, ErrMissingCredentials
	}

	hash := contentHash(doc)
	if val, err := c.cache.Get(hash); err == nil {
		if result, ok := val.(*extract.AnalyzeResult); ok {
			c.logger.Debugf("analysis cache hit for %s", hash[:12])
			return result, nil
		}
	}

	opURL, err := c.submit(ctx, doc)
	if err != nil {
		return nil, err
	}

	result, err := c.poll(ctx, opURL)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetWithExpire(hash, result, c.ttl); err != nil {
		c.logger.Errorf("error updating analysis cache: %s", err)
	}

	return result, nil
}

func (c *Client) submit(ctx context.Context, doc []byte) (string, error) {
	url := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		c.endpoint, modelID, apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(doc))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error submitting document for analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("analysis request failed with status %d: %s", resp.StatusCode, body)
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", errors.New("analysis response missing Operation-Location header")
	}

	return opURL, nil
}

func (c *Client) poll(ctx context.Context, opURL string) (*extract.AnalyzeResult, error) {
	for {
		op, err := c.fetchOperation(ctx, opURL)
		if err != nil {
			return nil, err
		}

		switch op.Status {
		case "succeeded":
			return extract.ParseResult(op.AnalyzeResult)
		case "failed":
			if op.Error != nil {
				return nil, fmt.Errorf("document analysis failed: %s", op.Error)
			}
			return nil, errors.New("document analysis failed")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) fetchOperation(ctx context.Context, opURL string) (*analyzeOperation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error polling analysis operation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("analysis poll failed with status %d: %s", resp.StatusCode, body)
	}

	var op analyzeOperation
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, fmt.Errorf("error decoding analysis operation: %w", err)
	}

	return &op, nil
}

func contentHash(doc []byte) string {
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:])
}
