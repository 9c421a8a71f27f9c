// ABOUTME: Live-data fallback search via Gemini with Google Search grounding
// ABOUTME: Returns the generated answer plus the web sources it was grounded on

package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mauromedda/agentdesk/internal/chat"
	"github.com/mauromedda/agentdesk/internal/httputil"
)

const (
	// DefaultBaseURL is the Google AI Studio endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.5-flash"
	// DefaultTimeout bounds one search call.
	DefaultTimeout = 90 * time.Second
)

// ErrNoAPIKey is returned by Search when no API key is configured.
var ErrNoAPIKey = errors.New("search: no Gemini API key configured")

// Result is a search-grounded answer.
type Result struct {
	Text    string
	Sources []chat.Source
}

// Searcher answers a query with live web data.
type Searcher interface {
	Search(ctx context.Context, query string) (*Result, error)
}

// Client implements Searcher on the Gemini API.
type Client struct {
	apiKey  string
	model   string
	timeout time.Duration
	http    *httputil.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.http = httputil.NewClient(u, map[string]string{"x-goog-api-key": c.apiKey}) }
}

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a search client. An empty apiKey makes every Search fail with
// ErrNoAPIKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		model:   DefaultModel,
		timeout: DefaultTimeout,
	}
	c.http = httputil.NewClient(DefaultBaseURL, map[string]string{"x-goog-api-key": apiKey})
	for _, o := range opts {
		o(c)
	}
	return c
}

// Model returns the configured model id.
func (c *Client) Model() string { return c.model }

// Search runs one grounded generateContent call for query.
func (c *Client) Search(ctx context.Context, query string) (*Result, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: query}}}},
		Tools:    []tool{{GoogleSearch: &struct{}{}}},
	}
	resp, err := c.http.DoJSON(ctx, http.MethodPost, "/models/"+c.model+":generateContent", req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw := httputil.ReadLimited(resp.Body, 64<<10)
		var ae apiError
		if json.Unmarshal(raw, &ae) == nil && ae.Error.Message != "" {
			return nil, fmt.Errorf("search API error: status %d: %s", resp.StatusCode, ae.Error.Message)
		}
		return nil, fmt.Errorf("search API error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}
	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return parseResult(&gr), nil
}

// parseResult concatenates the first candidate's text parts and collects
// grounding web chunks as sources. Missing metadata yields no sources.
func parseResult(gr *generateResponse) *Result {
	res := &Result{}
	if len(gr.Candidates) == 0 {
		return res
	}
	cand := gr.Candidates[0]

	var b strings.Builder
	for _, p := range cand.Content.Parts {
		if p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	res.Text = b.String()

	if cand.GroundingMetadata != nil {
		for _, ch := range cand.GroundingMetadata.GroundingChunks {
			if ch.Web == nil {
				continue
			}
			res.Sources = append(res.Sources, chat.Source{Title: ch.Web.Title, URL: ch.Web.URI})
		}
	}
	return res
}
