package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultTokenURL is the ESO single sign-on token endpoint
const DefaultTokenURL = "https://www.eso.org/sso/oidc/token"

// ErrAuthFailed is returned when the token endpoint rejects the credentials
var ErrAuthFailed = errors.New("authentication failed")

// TokenProvider exchanges ESO portal credentials for an id token
type TokenProvider struct {
	tokenURL string
	client   *http.Client
	logger   *zap.Logger
}

// NewTokenProvider creates a provider; an empty tokenURL selects DefaultTokenURL
func NewTokenProvider(tokenURL string, client *http.Client, logger *zap.Logger) *TokenProvider {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenProvider{tokenURL: tokenURL, client: client, logger: logger}
}

type tokenResponse struct {
	IDToken string `json:"id_token"`
}

// Token returns the id token for the given credentials
func (p *TokenProvider) Token(ctx context.Context, user, password string) (string, error) {
	if user == "" || password == "" {
		return "", ErrAuthFailed
	}

	q := url.Values{}
	q.Set("response_type", "id_token token")
	q.Set("grant_type", "password")
	q.Set("client_id", "clientid")
	q.Set("username", user)
	q.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.tokenURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrAuthFailed, resp.Status)
	}
	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if tr.IDToken == "" {
		return "", fmt.Errorf("%w: no id_token in response", ErrAuthFailed)
	}
	return tr.IDToken, nil
}

// Client returns an HTTP client for archive calls. With valid credentials the
// client sends the id token as a bearer token; otherwise it is anonymous.
func (p *TokenProvider) Client(ctx context.Context, user, password string) *http.Client {
	if user == "" || password == "" {
		p.logger.Info("Not logged in the ESO Archive. Will continue anonymously.")
		return p.client
	}
	token, err := p.Token(ctx, user, password)
	if err != nil {
		p.logger.Warn("Could not log in the ESO Archive", zap.String("user", user), zap.Error(err))
		p.logger.Info("Not logged in the ESO Archive. Will continue anonymously.")
		return p.client
	}
	p.logger.Info("Logged in the ESO Archive", zap.String("user", user))
	return BearerClient(ctx, p.client, token)
}

// BearerClient wraps base so every request carries the token
func BearerClient(ctx context.Context, base *http.Client, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return oauth2.NewClient(ctx, ts)
}
