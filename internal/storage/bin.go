package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"feedback_backend/internal/logger"
)

const maxBinResponse = 32 << 20

// BinStorage talks to a hosted JSON-document service where every collection
// is one bin. GET {base}/{bin}/latest answers {"record": <document>} and
// PUT {base}/{bin} replaces the document.
type BinStorage struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewBinStorage creates a client for the bin service
func NewBinStorage(cfg Config) (*BinStorage, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required for bin storage")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid bin base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &BinStorage{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (s *BinStorage) Name() string { return "bin" }

type binEnvelope struct {
	Record json.RawMessage `json:"record"`
}

// Get fetches the latest version of the bin.
func (s *BinStorage) Get(ctx context.Context, key string) (body []byte, err error) {
	start := time.Now()
	defer func() { logger.StoreLog(s.Name(), "get", key, time.Since(start), ignoreNotFound(err)) }()

	req, err := s.newRequest(ctx, http.MethodGet, s.binURL(key)+"/latest", nil)
	if err != nil {
		return nil, unavailable(s.Name(), key, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, unavailable(s.Name(), key, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBinResponse))
	if err != nil {
		return nil, unavailable(s.Name(), key, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, unavailable(s.Name(), key, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet(raw)))
	}

	var env binEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, unavailable(s.Name(), key, fmt.Errorf("decode envelope: %w", err))
	}
	if len(env.Record) == 0 {
		return nil, unavailable(s.Name(), key, fmt.Errorf("response has no record"))
	}
	return env.Record, nil
}

// Put replaces the bin contents with body.
func (s *BinStorage) Put(ctx context.Context, key string, body []byte) (err error) {
	start := time.Now()
	defer func() { logger.StoreLog(s.Name(), "put", key, time.Since(start), err) }()

	req, err := s.newRequest(ctx, http.MethodPut, s.binURL(key), bytes.NewReader(body))
	if err != nil {
		return writeFailed(s.Name(), key, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return writeFailed(s.Name(), key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return writeFailed(s.Name(), key, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet(raw)))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// Ping issues a HEAD against the service root. Any HTTP answer counts as
// reachable.
func (s *BinStorage) Ping(ctx context.Context) error {
	req, err := s.newRequest(ctx, http.MethodHead, s.baseURL, nil)
	if err != nil {
		return fmt.Errorf("bin: %w: %w", ErrUnavailable, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("bin: %w: %w", ErrUnavailable, err)
	}
	resp.Body.Close()
	return nil
}

func (s *BinStorage) binURL(key string) string {
	return s.baseURL + "/" + url.PathEscape(key)
}

func (s *BinStorage) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func snippet(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
