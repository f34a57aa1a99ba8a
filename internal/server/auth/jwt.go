// Package auth mints and checks the HS256 session tokens handed out at login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload. Version carries the user's token_version at
// issuance; the access guard rejects the token once the stored one moves on.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Version  int64  `json:"ver"`
}

// TokenIssuer is immutable after construction and safe for concurrent use.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenIssuer(secret []byte, validity time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, validity: validity, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	c := *i
	c.now = now
	return &c
}

func (i *TokenIssuer) Validity() time.Duration {
	return i.validity
}

func (i *TokenIssuer) Issue(userID int64, username string, version int64) (string, error) {
	issuedAt := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.validity)),
		},
		UserID:   userID,
		Username: username,
		Version:  version,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry. Failures are reported as
// common.ErrTokenExpired, common.ErrTokenBadSignature or common.ErrTokenMalformed.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrTokenBadSignature
		default:
			return nil, fmt.Errorf("%w: %v", common.ErrTokenMalformed, err)
		}
	}

	if !token.Valid || claims.UserID == 0 {
		return nil, common.ErrTokenMalformed
	}

	return claims, nil
}
