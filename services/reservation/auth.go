package reservation

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// tokenFieldAliases are the response fields the login endpoint has been seen
// returning the bearer token under, checked in this order.
var tokenFieldAliases = []string{"token", "access_token", "jwt", "authToken"}

// TokenCache owns the process-wide bearer token for the reservation system.
// The mutex serializes refresh-and-swap; a reader may still pick up a token
// that a concurrent 401 is about to invalidate, which the submitter's
// single-retry policy absorbs.
type TokenCache struct {
	HTTP     *http.Client
	BaseURL  string
	Username string
	Password string
	Logger   *zap.Logger

	mu    sync.Mutex
	token string
}

func NewTokenCache(httpClient *http.Client, baseURL, username, password string, logger *zap.Logger) *TokenCache {
	return &TokenCache{
		HTTP:     httpClient,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Username: username,
		Password: password,
		Logger:   logger,
	}
}

// Token returns the cached bearer token, logging in first when the cache is
// empty or a refresh is forced. The login uses form-encoded credentials, not
// a JSON body — that is what the reservation system accepts.
func (t *TokenCache) Token(ctx context.Context, forceRefresh bool) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && !forceRefresh {
		return t.token, nil
	}

	t.Logger.Info("Logging in to reservation system", zap.String("url", t.BaseURL))

	form := url.Values{}
	form.Set("username", t.Username)
	form.Set("password", t.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", newAuthError(0, "failed to build login request: "+err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.HTTP.Do(req)
	if err != nil {
		return "", newAuthError(0, "login request failed: "+err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newAuthError(resp.StatusCode, "failed to read login response: "+err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return "", newAuthError(resp.StatusCode, "login failed: "+string(body))
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", newAuthError(resp.StatusCode, "login response is not valid JSON: "+err.Error())
	}

	token := pickToken(fields)
	if token == "" {
		return "", newAuthError(resp.StatusCode, "no token found in login response")
	}

	t.token = token
	t.Logger.Info("Login successful")
	return token, nil
}

func pickToken(fields map[string]any) string {
	for _, alias := range tokenFieldAliases {
		if v, ok := fields[alias].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
