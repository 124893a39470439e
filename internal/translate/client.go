package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// Client calls the machine-translation HTTP API. The endpoint speaks the
// public "single" protocol: a form-encoded request returning a nested JSON
// array of translated segments plus the detected source language.
type Client struct {
	endpoint   string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

// NewClient creates a translation client. An empty endpoint selects the
// public default.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxRetries: 3,
		backoff:    time.Second,
	}
}

// Translate translates text from source to target and returns the translated
// text together with the source language the provider detected.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, string, error) {
	if strings.TrimSpace(text) == "" {
		return text, source, nil
	}
	if source == "" {
		source = LangAuto
	}

	form := url.Values{}
	form.Set("client", "gtx")
	form.Set("sl", source)
	form.Set("tl", target)
	form.Set("dt", "t")
	form.Set("q", text)
	body := form.Encode()

	resp, err := c.doWithRetry(ctx, body)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", "", fmt.Errorf("translation API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read translation response: %w", err)
	}
	return parseResponse(raw)
}

// Detect returns the provider-detected language code for a text sample.
func (c *Client) Detect(ctx context.Context, sample string) (string, error) {
	// The translate response carries the detected source language, so a
	// short translation doubles as detection.
	if len(sample) > 1000 {
		sample = sample[:1000]
	}
	_, detected, err := c.Translate(ctx, sample, LangAuto, TargetLang)
	if err != nil {
		return "", err
	}
	if detected == "" {
		return "", fmt.Errorf("provider did not report a source language")
	}
	return detected, nil
}

func (c *Client) doWithRetry(ctx context.Context, body string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("translation API returned status %d", resp.StatusCode)
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("translation request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// parseResponse extracts the translated text and the detected source language
// from the provider's nested array response:
//
//	[[["Hello world.","Bonjour le monde.",...], ...], null, "fr", ...]
func parseResponse(raw []byte) (string, string, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil {
		return "", "", fmt.Errorf("unexpected translation response: %w", err)
	}
	if len(outer) == 0 {
		return "", "", fmt.Errorf("empty translation response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return "", "", fmt.Errorf("unexpected translation segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}

	var detected string
	if len(outer) > 2 {
		_ = json.Unmarshal(outer[2], &detected)
	}

	return sb.String(), detected, nil
}
