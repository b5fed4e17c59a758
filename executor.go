package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is the public Piston execute endpoint.
const DefaultEndpoint = "https://emkc.org/api/v2/piston/execute"

// DefaultTimeout bounds one exchange with the execution service.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// ExecRequest is one run request in the service vocabulary.
type ExecRequest struct {
	Language string
	Version  string
	Source   string
}

// RunResult is the output of one remote run. It is never persisted.
type RunResult struct {
	Stdout string
	Stderr string
}

// Executor runs source code somewhere else.
type Executor interface {
	Execute(ctx context.Context, req ExecRequest) (RunResult, error)
}

// PistonClient talks to a Piston compatible execute endpoint.
type PistonClient struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewPistonClient creates a client for endpoint. A zero timeout uses DefaultTimeout.
func NewPistonClient(endpoint string, timeout time.Duration, logger *zap.Logger) *PistonClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PistonClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
		logger: logger,
	}
}

// Endpoint returns the configured URL.
func (c *PistonClient) Endpoint() string {
	return c.endpoint
}

type pistonFile struct {
	Content string `json:"content"`
}

type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
}

type pistonStage struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

type pistonResponse struct {
	Run     *pistonStage `json:"run"`
	Message string       `json:"message"`
}

// Execute sends one request and decodes one response. Every failure is
// reported as ErrTransport.
func (c *PistonClient) Execute(ctx context.Context, req ExecRequest) (RunResult, error) {
	version := req.Version
	if version == "" {
		version = "*"
	}
	body, err := json.Marshal(pistonRequest{
		Language: req.Language,
		Version:  version,
		Files:    []pistonFile{{Content: req.Source}},
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("%w: encode request: %v", ErrTransport, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return RunResult{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return RunResult{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return RunResult{}, fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}
	c.logger.Debug("execution service replied",
		zap.String("language", req.Language),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RunResult{}, fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, truncate(string(respBody), 200))
	}

	var decoded pistonResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return RunResult{}, fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if decoded.Run == nil {
		return RunResult{}, fmt.Errorf("%w: response without run stage: %s", ErrTransport, decoded.Message)
	}
	return RunResult{Stdout: decoded.Run.Stdout, Stderr: decoded.Run.Stderr}, nil
}

// Close drops idle keep-alive connections.
func (c *PistonClient) Close() {
	c.client.CloseIdleConnections()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

var _ Executor = (*PistonClient)(nil)
