package auth

import (
	"testing"

	"github.com/dtnitsch/sheet-query-runner/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndVerify(t *testing.T) {
	token, err := MintToken("cs-1234", "secret")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "cs-1234", claims["appId"])

	_, err = jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestMintTokenRequiresCredentials(t *testing.T) {
	_, err := MintToken("", "secret")
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = MintToken("cs-1", "")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestAppIDFromToken(t *testing.T) {
	token, err := MintToken("cs-abc", "secret")
	require.NoError(t, err)

	appID, err := AppIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cs-abc", appID)

	_, err = AppIDFromToken("not-a-jwt")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		cfg     models.APIConfig
		static  bool
		wantErr bool
	}{
		{"static token wins", models.APIConfig{AuthToken: "static", ClientID: "cs-1", ClientSecret: "s"}, true, false},
		{"minted from credentials", models.APIConfig{ClientID: "cs-1", ClientSecret: "s"}, false, false},
		{"nothing configured", models.APIConfig{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := Resolve(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoCredentials)
				return
			}
			require.NoError(t, err)
			if tt.static {
				assert.Equal(t, "static", token)
				return
			}
			appID, err := AppIDFromToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.ClientID, appID)
		})
	}
}
