package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTP downloads subtitles over HTTP(S). The whole body is held in memory,
// bounded by MaxBytes.
type HTTP struct {
	Client    *http.Client
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

func (h *HTTP) Load(ctx context.Context, ref string) (string, error) {
	data, err := h.fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	return DecodeText(data)
}

func (h *HTTP) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBytes := h.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	userAgent := h.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("invalid subtitle url %q: %w", rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	// fail fast when the server announces an oversized body
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf(
			"%w: content-length %d exceeds %d",
			ErrTooLarge,
			resp.ContentLength,
			maxBytes,
		)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrTooLarge, maxBytes)
	}
	return data, nil
}
