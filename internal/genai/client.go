// Package genai is a minimal client for the Google Generative Language API
// (Gemini), exposing a single prompt-to-text call.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production Generative Language endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Client calls the generateContent endpoint of a single model. Requests are
// rate limited and retried with exponential backoff on transport errors,
// 429, and 5xx responses.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	limiter    *rate.Limiter
}

// NewClient constructs a Client for the given model (e.g.
// "gemini-2.0-flash"). An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, apiKey, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt to the model and returns the first candidate's
// text. It satisfies the service layer's Generator interface.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("genai.Client.Generate: marshal request: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	backoff := retry.WithMaxRetries(2, retry.NewExponential(time.Second))

	var res generateResponse
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			return json.NewDecoder(resp.Body).Decode(&res)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		default:
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	})
	if err != nil {
		return "", fmt.Errorf("genai.Client.Generate: %w", err)
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("genai.Client.Generate: empty response")
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}
