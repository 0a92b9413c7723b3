package linepush

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result holds the channel's response to one push. A non-2xx status is a
// per-recipient failure, not an error.
type Result struct {
	Status int
	Body   string
}

// OK reports whether the push was accepted by the channel.
func (r Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client pushes text messages to the LINE Messaging API.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client. With skip set, Push returns a stubbed 200 without
// calling out, for local runs without channel credentials.
func New(baseURL, token string, skip bool, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.line.me"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		Skip:    skip,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

// Push sends one text message to a recipient identifier. The returned error
// covers transport problems only; HTTP-level rejection comes back in Result.
func (c *Client) Push(ctx context.Context, to, text string) (Result, error) {
	if c.Skip {
		return Result{Status: http.StatusOK, Body: `{}`}, nil
	}
	if to == "" {
		return Result{}, fmt.Errorf("recipient id required")
	}

	body, _ := json.Marshal(pushRequest{
		To:       to,
		Messages: []textMessage{{Type: "text", Text: text}},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v2/bot/message/push", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("push channel request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	return Result{Status: resp.StatusCode, Body: string(respBody)}, nil
}
