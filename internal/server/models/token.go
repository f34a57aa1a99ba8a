package models

// TokenPair bundles the 24h access token with the server-stored refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
