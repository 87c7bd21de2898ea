package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/donaldgifford/bluberry/internal/metrics"
)

const (
	defaultTokenURL = "https://api.ebay.com/identity/v1/oauth2/token" //nolint:gosec // not a credential
	defaultScope    = "https://api.ebay.com/oauth/api_scope"

	// DefaultRefreshBuffer is how long before expiry a cached token is
	// considered stale and fetched again.
	DefaultRefreshBuffer = 60 * time.Second
)

// OAuthTokenProvider implements TokenProvider with the client credentials
// grant. The token is cached and replaced pre-emptively once it is within
// the refresh buffer of its expiry, so requests never carry a token that
// is about to lapse. Safe for concurrent use.
type OAuthTokenProvider struct {
	appID         string
	certID        string
	tokenURL      string
	scopes        string
	refreshBuffer time.Duration
	client        *http.Client

	mu      sync.Mutex
	token   string
	expiry  time.Time
	nowFunc func() time.Time
}

// OAuthOption configures the OAuthTokenProvider.
type OAuthOption func(*OAuthTokenProvider)

// WithTokenURL overrides the default eBay token endpoint.
func WithTokenURL(u string) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.tokenURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.client = c
	}
}

// WithRefreshBuffer changes how early a token is refreshed.
func WithRefreshBuffer(d time.Duration) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.refreshBuffer = d
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) OAuthOption {
	return func(p *OAuthTokenProvider) {
		p.nowFunc = f
	}
}

// NewOAuthTokenProvider creates a new eBay OAuth2 token provider.
func NewOAuthTokenProvider(
	appID, certID string,
	opts ...OAuthOption,
) *OAuthTokenProvider {
	p := &OAuthTokenProvider{
		appID:         appID,
		certID:        certID,
		tokenURL:      defaultTokenURL,
		scopes:        defaultScope,
		refreshBuffer: DefaultRefreshBuffer,
		client:        &http.Client{Timeout: 10 * time.Second},
		nowFunc:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Token returns a valid access token, fetching a new one when the cached
// token is missing or inside the refresh window.
func (p *OAuthTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.validLocked() {
		return p.token, nil
	}

	return p.refreshLocked(ctx)
}

// Expiry returns the expiry of the cached token (zero if none).
func (p *OAuthTokenProvider) Expiry() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expiry
}

func (p *OAuthTokenProvider) validLocked() bool {
	return p.token != "" && p.nowFunc().Before(p.expiry.Add(-p.refreshBuffer))
}

func (p *OAuthTokenProvider) refreshLocked(ctx context.Context) (string, error) {
	if p.appID == "" || p.certID == "" {
		return "", newProviderError(KindAuth, 0, errors.New("ebay app_id and cert_id are required"))
	}

	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {p.scopes},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	creds := base64.StdEncoding.EncodeToString([]byte(p.appID + ":" + p.certID))
	req.Header.Set("Authorization", "Basic "+creds)

	metrics.EbayTokenRefreshesTotal.Inc()

	resp, err := p.client.Do(req)
	if err != nil {
		return "", newProviderError(KindNetwork, 0, fmt.Errorf("executing token request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newProviderError(KindNetwork, resp.StatusCode, fmt.Errorf("reading token response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		var errResp tokenErrorResponse
		_ = json.Unmarshal(body, &errResp) //nolint:errcheck // best-effort error parsing
		kind := kindForStatus(resp.StatusCode)
		if resp.StatusCode == http.StatusBadRequest {
			// invalid_client / invalid_scope come back as 400.
			kind = KindAuth
		}
		return "", newProviderError(kind, resp.StatusCode, fmt.Errorf(
			"token request failed: %s - %s",
			errResp.Error,
			errResp.ErrorDescription,
		))
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", newProviderError(KindBadResponse, resp.StatusCode, fmt.Errorf("parsing token response: %w", err))
	}
	if tokenResp.AccessToken == "" {
		return "", newProviderError(KindBadResponse, resp.StatusCode, errors.New("token response has no access_token"))
	}

	p.token = tokenResp.AccessToken
	p.expiry = p.nowFunc().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return p.token, nil
}
