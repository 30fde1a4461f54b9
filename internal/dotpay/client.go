package dotpay

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/josh-kwaku/dotpay-gateway/internal/logging"
)

const (
	ProductionURL    = "https://ssl.dotpay.pl/t2/"
	TestURL          = "https://ssl.dotpay.pl/test_payment/"
	ProductionAPIURL = "https://ssl.dotpay.pl/s2/login/"
	TestAPIURL       = "https://ssl.dotpay.pl/test_seller/"
)

// Channel group names used for gateway routing.
const (
	GroupCash      = "cash"
	GroupTransfers = "transfers"
)

type Channel struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Logo  string `json:"logo"`
	Group string `json:"group"`
}

type Credentials struct {
	Username string
	Password string
	SellerID string
}

type ChannelQuery struct {
	SellerID string
	Amount   string
	Currency string
	Lang     string
}

type Options struct {
	TestMode   bool
	BaseURL    string
	APIBaseURL string
	Timeout    time.Duration
}

// Client talks to the payment and seller APIs. Calls are not retried.
type Client struct {
	http       *resty.Client
	baseURL    string
	apiBaseURL string
}

func NewClient(opts Options) *Client {
	baseURL, apiBaseURL := ProductionURL, ProductionAPIURL
	if opts.TestMode {
		baseURL, apiBaseURL = TestURL, TestAPIURL
	}
	if opts.BaseURL != "" {
		baseURL = opts.BaseURL
	}
	if opts.APIBaseURL != "" {
		apiBaseURL = opts.APIBaseURL
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		http:       resty.New().SetTimeout(timeout).SetHeader("Accept", "application/json"),
		baseURL:    withSlash(baseURL),
		apiBaseURL: withSlash(apiBaseURL),
	}
}

// PaymentURL is the form action the buyer is redirected to.
func (c *Client) PaymentURL() string { return c.baseURL }

// AccountIsValid reports whether the seller API accepts the credentials.
// Missing credentials are reported as invalid without a request.
func (c *Client) AccountIsValid(ctx context.Context, creds Credentials) (bool, error) {
	if creds.Username == "" || creds.Password == "" || creds.SellerID == "" {
		return false, nil
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(creds.Username, creds.Password).
		SetPathParam("seller", creds.SellerID).
		SetQueryParam("format", "json").
		Get(c.apiBaseURL + "api/v1/accounts/{seller}/")
	if err != nil {
		return false, fmt.Errorf("AccountIsValid: %w", err)
	}

	logging.FromContext(ctx).Debug("seller api response",
		"status", resp.StatusCode(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	switch resp.StatusCode() {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("AccountIsValid: unexpected status %d", resp.StatusCode())
	}
}

type channelList struct {
	Channels []Channel `json:"channels"`
}

func (c *Client) ListChannels(ctx context.Context, q ChannelQuery) ([]Channel, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":       q.SellerID,
			"amount":   q.Amount,
			"currency": q.Currency,
			"lang":     q.Lang,
			"format":   "json",
		}).
		SetResult(&channelList{}).
		Get(c.baseURL + "payment_api/v1/channels/")
	if err != nil {
		return nil, fmt.Errorf("ListChannels: %w", err)
	}

	logging.FromContext(ctx).Debug("channel list response",
		"status", resp.StatusCode(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode() != http.StatusOK {
		body := resp.String()
		if len(body) > 512 {
			body = body[:512]
		}
		return nil, fmt.Errorf("ListChannels: unexpected status %d: %s", resp.StatusCode(), body)
	}
	return resp.Result().(*channelList).Channels, nil
}

// InGroup reports whether channelID belongs to one of groups.
func InGroup(channels []Channel, channelID int, groups ...string) bool {
	for _, ch := range channels {
		if ch.ID != channelID {
			continue
		}
		for _, g := range groups {
			if ch.Group == g {
				return true
			}
		}
	}
	return false
}

func withSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
