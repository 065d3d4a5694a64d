package picgo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"picgo-mcp/internal/domain"
)

// ClientConfig configures the PicGo server endpoints.
type ClientConfig struct {
	UploadURL    string
	HeartbeatURL string
	HTTPClient   *http.Client
}

// Client forwards upload requests to a local PicGo server.
type Client struct {
	uploadURL    string
	heartbeatURL string
	http         *http.Client
	logger       *zap.Logger
}

type uploadPayload struct {
	List []string `json:"list"`
}

type heartbeatReply struct {
	Success bool `json:"success"`
}

func NewClient(cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := validateEndpoint(cfg.UploadURL); err != nil {
		return nil, fmt.Errorf("upload url: %w", err)
	}
	if cfg.HeartbeatURL != "" {
		if err := validateEndpoint(cfg.HeartbeatURL); err != nil {
			return nil, fmt.Errorf("heartbeat url: %w", err)
		}
	}
	client := cfg.HTTPClient
	if client == nil {
		client = newHTTPClient()
	}
	return &Client{
		uploadURL:    cfg.UploadURL,
		heartbeatURL: cfg.HeartbeatURL,
		http:         client,
		logger:       logger.Named("picgo"),
	}, nil
}

// UploadURL returns the endpoint uploads are posted to.
func (c *Client) UploadURL() string {
	return c.uploadURL
}

// Upload posts the paths to PicGo and returns its 2xx reply.
// Failures of the exchange, including non-2xx statuses, are reported as *domain.DownstreamError.
// The request is not bound to ctx cancellation: once started it runs to completion.
func (c *Client) Upload(ctx context.Context, paths []string) (*domain.UploadReply, error) {
	body, err := json.Marshal(uploadPayload{List: paths})
	if err != nil {
		return nil, fmt.Errorf("encode upload request: %w", err)
	}
	status, respBody, err := c.post(context.WithoutCancel(ctx), c.uploadURL, body)
	if err != nil {
		return nil, err
	}
	return &domain.UploadReply{StatusCode: status, Body: respBody}, nil
}

// Heartbeat checks that the PicGo server is up and answering.
func (c *Client) Heartbeat(ctx context.Context) error {
	if c.heartbeatURL == "" {
		return errors.New("heartbeat url is not configured")
	}
	_, respBody, err := c.post(ctx, c.heartbeatURL, []byte("{}"))
	if err != nil {
		return err
	}
	var reply heartbeatReply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return fmt.Errorf("decode heartbeat response: %w", err)
	}
	if !reply.Success {
		return fmt.Errorf("heartbeat reported failure: %s", strings.TrimSpace(string(respBody)))
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("picgo request failed", zap.String("url", endpoint), zap.Error(err))
		return 0, nil, &domain.DownstreamError{Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &domain.DownstreamError{
			Cause:      fmt.Errorf("read response: %w", err),
			StatusCode: resp.StatusCode,
		}
	}
	c.logger.Debug("picgo request completed",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return 0, nil, &domain.DownstreamError{
			Cause:      fmt.Errorf("request failed with status code %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}
	return resp.StatusCode, respBody, nil
}

func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          16,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}
}

func validateEndpoint(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("endpoint is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("endpoint host is required")
	}
	return nil
}
