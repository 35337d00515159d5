package ebay

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTradingURL = "https://api.ebay.com/ws/api.dll"

// Compatibility level sent with every Trading API call.
const defaultCompatibilityLevel = "967"

// TradingClient issues calls against the legacy eBay Trading API (XML
// over HTTP POST). Every call is routed through the rate Governor.
type TradingClient struct {
	gov         *Governor
	authToken   string
	tradingURL  string
	siteID      string
	compatLevel string
	client      *http.Client
}

// TradingOption configures the TradingClient.
type TradingOption func(*TradingClient)

// WithTradingURL overrides the default Trading API endpoint.
func WithTradingURL(u string) TradingOption {
	return func(c *TradingClient) {
		c.tradingURL = u
	}
}

// WithSiteID overrides the default marketplace site id.
func WithSiteID(id string) TradingOption {
	return func(c *TradingClient) {
		c.siteID = id
	}
}

// WithCompatibilityLevel overrides the Trading API compatibility level.
func WithCompatibilityLevel(level string) TradingOption {
	return func(c *TradingClient) {
		c.compatLevel = level
	}
}

// WithTradingHTTPClient overrides the default HTTP client.
func WithTradingHTTPClient(hc *http.Client) TradingOption {
	return func(c *TradingClient) {
		c.client = hc
	}
}

// NewTradingClient creates a Trading API client authenticated with a
// static auth token.
func NewTradingClient(gov *Governor, authToken string, opts ...TradingOption) *TradingClient {
	c := &TradingClient{
		gov:         gov,
		authToken:   authToken,
		tradingURL:  defaultTradingURL,
		siteID:      "0",
		compatLevel: defaultCompatibilityLevel,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call wraps innerXML in the Trading request envelope for callName,
// sends it through the Governor, and returns the raw response body.
// The body is returned even when the remote reports a business failure;
// callers check it with CheckAck.
func (c *TradingClient) Call(ctx context.Context, callName, innerXML string) ([]byte, error) {
	envelope := c.envelope(callName, innerXML)
	return c.gov.Send(ctx, callName, func(ctx context.Context) ([]byte, error) {
		return c.post(ctx, callName, envelope)
	})
}

func (c *TradingClient) envelope(callName, innerXML string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	b.WriteString("\n<")
	b.WriteString(callName)
	b.WriteString(`Request xmlns="urn:ebay:apis:eBLBaseComponents">`)
	b.WriteString("<RequesterCredentials><eBayAuthToken>")
	b.WriteString(EscapeXML(c.authToken))
	b.WriteString("</eBayAuthToken></RequesterCredentials>")
	b.WriteString(innerXML)
	b.WriteString("</")
	b.WriteString(callName)
	b.WriteString("Request>")
	return b.String()
}

func (c *TradingClient) post(ctx context.Context, callName, envelope string) ([]byte, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.tradingURL,
		strings.NewReader(envelope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", callName, err)
	}

	req.Header.Set("X-EBAY-API-COMPATIBILITY-LEVEL", c.compatLevel)
	req.Header.Set("X-EBAY-API-CALL-NAME", callName)
	req.Header.Set("X-EBAY-API-SITEID", c.siteID)
	req.Header.Set("Content-Type", "text/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing %s request: %w", callName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", callName, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"trading API %s error (status %d): %s",
			callName, resp.StatusCode, string(body),
		)
	}

	return body, nil
}

// apiError is one <Errors> block in a Trading API response.
type apiError struct {
	ErrorCode    string `xml:"ErrorCode"`
	ShortMessage string `xml:"ShortMessage"`
	LongMessage  string `xml:"LongMessage"`
}

// ackEnvelope captures the acknowledgment fields shared by all Trading
// API responses, regardless of the response root element.
type ackEnvelope struct {
	Ack    string     `xml:"Ack"`
	Errors []apiError `xml:"Errors"`
}

func parseAck(body []byte) (ackEnvelope, error) {
	var env ackEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return ackEnvelope{}, fmt.Errorf("parsing response acknowledgment: %w", err)
	}
	return env, nil
}

// CheckAck inspects a Trading API response body and returns a
// RemoteError when the remote acknowledged the call with a failure.
// Warnings count as success.
func CheckAck(call string, body []byte) error {
	env, err := parseAck(body)
	if err != nil {
		return err
	}
	if env.Ack == "Success" || env.Ack == "Warning" {
		return nil
	}

	remote := &RemoteError{Call: call, Raw: body}
	if len(env.Errors) > 0 {
		remote.Code = env.Errors[0].ErrorCode
		remote.Message = env.Errors[0].LongMessage
		if remote.Message == "" {
			remote.Message = env.Errors[0].ShortMessage
		}
	} else {
		remote.Message = "Ack=" + env.Ack
	}
	return remote
}

// EscapeXML escapes the five XML special characters in user-supplied
// text before it is placed in a request payload.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s)) //nolint:errcheck // bytes.Buffer never fails
	return buf.String()
}
