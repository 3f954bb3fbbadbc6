package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ErrAuth signals that a bearer credential could not be obtained. Callers
// surface it as an inability to complete the action; it is never retried
// automatically.
var ErrAuth = errors.New("auth: credential acquisition failed")

// CredentialProvider yields a bearer access token on demand.
type CredentialProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticProvider returns a pre-issued token. Useful for tests and for
// deployments where the token is injected through the environment.
type StaticProvider struct {
	Token string
}

func (p StaticProvider) AccessToken(ctx context.Context) (string, error) {
	if p.Token == "" {
		return "", ErrAuth
	}
	return p.Token, nil
}

// Config holds the OAuth2 client-credentials settings for the token endpoint.
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Audience     string
	Timeout      time.Duration
}

// ClientCredentialsProvider fetches access tokens from an OAuth2 token
// endpoint and caches them until shortly before expiry.
type ClientCredentialsProvider struct {
	httpClient *resty.Client
	cfg        Config

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewClientCredentialsProvider builds a provider for the given token endpoint.
func NewClientCredentialsProvider(cfg Config) *ClientCredentialsProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	restyClient := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &ClientCredentialsProvider{
		httpClient: restyClient,
		cfg:        cfg,
	}
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Audience     string `json:"audience,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AccessToken returns the cached token when still valid, otherwise requests
// a fresh one from the token endpoint.
func (p *ClientCredentialsProvider) AccessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.expiresAt) {
		return p.token, nil
	}

	var result tokenResponse
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(tokenRequest{
			GrantType:    "client_credentials",
			ClientID:     p.cfg.ClientID,
			ClientSecret: p.cfg.ClientSecret,
			Audience:     p.cfg.Audience,
		}).
		SetResult(&result).
		Post(p.cfg.TokenURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: token endpoint status=%d", ErrAuth, resp.StatusCode())
	}
	if strings.TrimSpace(result.AccessToken) == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuth)
	}

	p.token = result.AccessToken
	p.expiresAt = tokenExpiry(result)

	return p.token, nil
}

// tokenExpiry prefers the JWT exp claim over expires_in, minus a safety
// margin so a token is never handed out right at its expiry edge.
func tokenExpiry(res tokenResponse) time.Time {
	const margin = 30 * time.Second

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(res.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time.Add(-margin)
		}
	}

	if res.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(res.ExpiresIn)*time.Second - margin)
	}

	// No expiry information: treat the token as single-use.
	return time.Now()
}
