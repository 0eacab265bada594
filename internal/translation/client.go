// Package translation is the client for a DeepL-compatible translation API.
// It sends one text per request and returns the first translation.
package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseBytes bounds how much of a provider reply is read.
const maxResponseBytes = 1 << 20

// ErrMalformedResponse is returned when a 2xx reply carries no translation.
var ErrMalformedResponse = errors.New("no translation returned from API")

// Request describes one translation call.
type Request struct {
	Text           string
	TargetLanguage string
	APIURL         string
	APIKey         string
}

// Translator translates text through an external provider.
type Translator interface {
	Translate(ctx context.Context, req Request) (string, error)
}

// APIError is a non-2xx reply from the provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error (%d): %s", e.StatusCode, e.Body)
}

type translateBody struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
}

type translateReply struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// Client calls the provider over HTTP.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent to the provider.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client whose requests time out after timeout. A zero
// timeout disables the limit.
func NewClient(timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate posts req.Text to req.APIURL and returns the first translation.
func (c *Client) Translate(ctx context.Context, req Request) (string, error) {
	payload, err := json.Marshal(translateBody{
		Text:       []string{req.Text},
		TargetLang: strings.ToUpper(req.TargetLanguage),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+req.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request to translation API failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var reply translateReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(reply.Translations) == 0 {
		return "", ErrMalformedResponse
	}

	return reply.Translations[0].Text, nil
}
