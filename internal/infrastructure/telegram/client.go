package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/treasurehunter/watcher/internal/domain"
)

// ClientConfig holds Telegram Bot API configuration
type ClientConfig struct {
	APIBaseURL string
	BotToken   string
	ChatID     string
	ParseMode  string
	Timeout    time.Duration
}

// Client delivers alerts to a Telegram chat through the Bot API
type Client struct {
	httpClient *http.Client
	apiBaseURL string
	botToken   string
	chatID     string
	parseMode  string
}

// apiResponse is the envelope every Bot API method returns
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// NewClient creates a new Telegram client
func NewClient(config ClientConfig) (*Client, error) {
	if config.BotToken == "" || config.ChatID == "" {
		return nil, domain.ErrMissingCredentials
	}

	baseURL := strings.TrimRight(config.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiBaseURL: baseURL,
		botToken:   config.BotToken,
		chatID:     config.ChatID,
		parseMode:  config.ParseMode,
	}, nil
}

// Notify sends caption as a photo caption when imageURL is set, otherwise as a text message
func (c *Client) Notify(ctx context.Context, caption, imageURL string) error {
	if imageURL != "" {
		return c.SendPhoto(ctx, imageURL, caption)
	}
	return c.SendText(ctx, caption)
}

// SendText posts a text message to the configured chat
func (c *Client) SendText(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("chat_id", c.chatID)
	form.Set("text", text)
	c.setParseMode(form)

	if err := c.call(ctx, "sendMessage", form); err != nil {
		return err
	}
	log.Printf("[TELEGRAM] Sent text: %s", firstLine(text))
	return nil
}

// SendPhoto posts a photo by URL with a caption to the configured chat
func (c *Client) SendPhoto(ctx context.Context, photoURL, caption string) error {
	form := url.Values{}
	form.Set("chat_id", c.chatID)
	form.Set("photo", photoURL)
	form.Set("caption", caption)
	c.setParseMode(form)

	if err := c.call(ctx, "sendPhoto", form); err != nil {
		return err
	}
	log.Printf("[TELEGRAM] Sent photo: %s", firstLine(caption))
	return nil
}

func (c *Client) setParseMode(form url.Values) {
	if c.parseMode != "" {
		form.Set("parse_mode", c.parseMode)
	}
}

// call invokes a Bot API method. Errors never include the request URL, which carries the token.
func (c *Client) call(ctx context.Context, method string, form url.Values) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiBaseURL, c.botToken, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: failed to create request", domain.ErrNotifyFailed)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrNotifyFailed, method, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var result apiResponse
	_ = json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !result.OK {
		desc := result.Description
		if desc == "" {
			desc = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%w: %s: status %d: %s", domain.ErrNotifyFailed, method, resp.StatusCode, desc)
	}

	return nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
