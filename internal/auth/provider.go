package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// TokenInfoVerifier validates a provider ID token against the provider's
// tokeninfo endpoint. The endpoint does the signature and expiry checks; a
// 200 with claims means the token attests to that account.
type TokenInfoVerifier struct {
	Endpoint string
	Client   *http.Client
}

func NewTokenInfoVerifier(endpoint string) *TokenInfoVerifier {
	return &TokenInfoVerifier{Endpoint: endpoint}
}

func (v *TokenInfoVerifier) Verify(token string) (*Identity, error) {
	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(v.Endpoint + "?id_token=" + url.QueryEscape(token))
	if err != nil {
		return nil, fmt.Errorf("verify provider token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var claims struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode tokeninfo response: %w", err)
	}
	if claims.Sub == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UID:    claims.Sub,
		Name:   claims.Name,
		Email:  claims.Email,
		Method: MethodProvider,
	}, nil
}
