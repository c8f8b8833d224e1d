package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/weblineafrica/order-sms/internal/phone"
	"github.com/weblineafrica/order-sms/internal/settings"
)

const (
	DefaultURL          = "https://sms.webline.africa/api/v3/sms/send"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 10

	unknownError = "Unknown error"

	maxResponseBytes = 1 << 20
)

type Options struct {
	URL     string
	Timeout time.Duration
	// MaxRedirects of 0 disables redirects; a negative value selects DefaultMaxRedirects.
	MaxRedirects int
}

// Client sends single SMS messages through the Webline gateway. Settings are
// fetched from the provider on every Send.
type Client struct {
	url      string
	client   *http.Client
	settings settings.Provider
}

func NewClient(provider settings.Provider, opts Options) *Client {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRedirects < 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	maxRedirects := opts.MaxRedirects

	return &Client{
		url:      opts.URL,
		settings: provider,
		client: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

type sendResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// Send makes exactly one attempt to deliver message to phoneNumber. orderID
// is only used for log correlation.
func (c *Client) Send(ctx context.Context, phoneNumber, message string, orderID int64) Result {
	recipient, err := phone.Validate(phoneNumber)
	if err != nil {
		return Failure(InvalidPhoneNumber, "Invalid phone number format.")
	}

	cfg, err := c.settings.Settings(ctx)
	if err != nil {
		return Failure(SettingsError, err.Error())
	}
	cfg = cfg.WithDefaults()

	endpoint, err := c.buildURL(recipient, cfg.SenderID, message)
	if err != nil {
		return Failure(TransportError, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return Failure(TransportError, err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	slog.Debug("sending sms", "order_id", orderID, "recipient", recipient)

	resp, err := c.client.Do(req)
	if err != nil {
		return Failure(TransportError, transportMessage(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Failure(TransportError, err.Error())
	}

	var sr sendResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return Failure(APIError, unknownError)
	}

	if resp.StatusCode == http.StatusOK && sr.Success != nil && *sr.Success {
		return Success(string(body))
	}

	if sr.Message == "" {
		return Failure(APIError, unknownError)
	}
	return Failure(APIError, sr.Message)
}

func (c *Client) buildURL(recipient, senderID, message string) (string, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("parse gateway url: %w", err)
	}

	u.RawQuery = "recipient=" + recipient +
		"&sender_id=" + url.QueryEscape(senderID) +
		"&message=" + url.QueryEscape(message)
	return u.String(), nil
}

// transportMessage unwraps *url.Error so logs carry the low-level cause.
func transportMessage(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}
	return err.Error()
}
