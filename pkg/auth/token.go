// Package auth supplies the token sent in the API auth header.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/sheet-query-runner/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoCredentials = errors.New("no auth token or client credentials configured")
	ErrNoAppID       = errors.New("token has no appId claim")
)

// appIDClaim identifies the client application in the platform's JWT.
const appIDClaim = "appId"

// MintToken signs an HS256 token carrying the client id as its appId claim.
func MintToken(clientID, clientSecret string) (string, error) {
	if clientID == "" || clientSecret == "" {
		return "", ErrNoCredentials
	}

	claims := jwt.MapClaims{
		appIDClaim: clientID,
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(clientSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// AppIDFromToken reads the appId claim without verifying the signature.
// It is only used to label runs in logs and history.
func AppIDFromToken(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	appID, ok := claims[appIDClaim].(string)
	if !ok || appID == "" {
		return "", ErrNoAppID
	}
	return appID, nil
}

// Resolve returns the configured static token, or mints one from the client credentials.
func Resolve(cfg models.APIConfig) (string, error) {
	if cfg.AuthToken != "" {
		return cfg.AuthToken, nil
	}
	return MintToken(cfg.ClientID, cfg.ClientSecret)
}
