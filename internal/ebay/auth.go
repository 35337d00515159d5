package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultTokenURL = "https://api.ebay.com/identity/v1/oauth2/token" //nolint:gosec // endpoint, not a credential
	inventoryScope  = "https://api.ebay.com/oauth/api_scope/sell.inventory"

	// Tokens are treated as expired a minute early so an in-flight
	// offer write never races the real expiry.
	expirySlack = time.Minute
)

// OAuthTokenProvider mints application access tokens for the Inventory
// API using the client-credentials grant. A minted token is reused
// until it is within expirySlack of expiring; all methods are safe for
// concurrent use.
type OAuthTokenProvider struct {
	appID    string
	certID   string
	tokenURL string
	scope    string
	client   *http.Client
	nowFunc  func() time.Time

	mu     sync.Mutex
	cached string
	expiry time.Time
}

// OAuthOption configures the OAuthTokenProvider.
type OAuthOption func(*OAuthTokenProvider)

// WithTokenURL points the provider at a different token endpoint,
// typically the sandbox or a test server.
func WithTokenURL(u string) OAuthOption {
	return func(p *OAuthTokenProvider) { p.tokenURL = u }
}

// WithAuthHTTPClient replaces the HTTP client used for token requests.
func WithAuthHTTPClient(c *http.Client) OAuthOption {
	return func(p *OAuthTokenProvider) { p.client = c }
}

// WithNowFunc overrides the clock, for expiry tests.
func WithNowFunc(f func() time.Time) OAuthOption {
	return func(p *OAuthTokenProvider) { p.nowFunc = f }
}

// NewOAuthTokenProvider builds a provider scoped for sell.inventory
// writes using the given application keypair.
func NewOAuthTokenProvider(appID, certID string, opts ...OAuthOption) *OAuthTokenProvider {
	p := &OAuthTokenProvider{
		appID:    appID,
		certID:   certID,
		tokenURL: defaultTokenURL,
		scope:    inventoryScope,
		client:   &http.Client{Timeout: 10 * time.Second},
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token returns the cached access token, minting a fresh one when the
// cache is empty or about to expire.
func (p *OAuthTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" && p.nowFunc().Add(expirySlack).Before(p.expiry) {
		return p.cached, nil
	}

	tok, ttl, err := p.mint(ctx)
	if err != nil {
		return "", err
	}
	p.cached = tok
	p.expiry = p.nowFunc().Add(ttl)
	return tok, nil
}

func (p *OAuthTokenProvider) mint(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {p.scope},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+basicCredentials(p.appID, p.certID))

	resp, err := p.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var oauthErr struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.Unmarshal(body, &oauthErr)
		return "", 0, fmt.Errorf("token request failed: status %d: %s (%s)",
			resp.StatusCode, oauthErr.Error, oauthErr.ErrorDescription)
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &grant); err != nil {
		return "", 0, fmt.Errorf("parsing token response: %w", err)
	}
	if grant.AccessToken == "" {
		return "", 0, fmt.Errorf("token response carried no access_token")
	}
	return grant.AccessToken, time.Duration(grant.ExpiresIn) * time.Second, nil
}

func basicCredentials(appID, certID string) string {
	return base64.StdEncoding.EncodeToString([]byte(appID + ":" + certID))
}
