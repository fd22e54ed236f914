package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// tokenRefreshMargin is subtracted from the advertised lifetime so a cached
// token is never sent in its last minutes.
const tokenRefreshMargin = 5 * time.Minute

func (g *PayPalGateway) accessToken(ctx context.Context) (string, error) {
	g.tokenMu.RLock()
	if g.token != "" && g.now().Before(g.tokenExpiry) {
		token := g.token
		g.tokenMu.RUnlock()
		return token, nil
	}
	g.tokenMu.RUnlock()

	g.tokenMu.Lock()
	defer g.tokenMu.Unlock()

	if g.token != "" && g.now().Before(g.tokenExpiry) {
		return g.token, nil
	}

	log.Debug().Msg("Fetching new PayPal access token")
	var tokenResp TokenResponse
	resp, err := g.http.R().
		SetContext(ctx).
		SetBasicAuth(g.clientID, g.clientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&tokenResp).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", fmt.Errorf("request access token: %w", err)
	}
	if resp.IsError() {
		return "", &GatewayError{Op: "token", StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("access token missing from PayPal response")
	}

	lifetime := time.Duration(tokenResp.ExpiresIn)*time.Second - tokenRefreshMargin
	g.token = tokenResp.AccessToken
	g.tokenExpiry = g.now().Add(lifetime)
	log.Debug().Dur("lifetime", lifetime).Msg("Cached PayPal access token")

	return g.token, nil
}
