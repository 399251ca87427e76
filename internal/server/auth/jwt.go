// Package auth issues and validates the access tokens the server hands out
// after sign-in.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims embeds the registered claims and the owning user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

const issuer = "mindbalance"

func GenerateToken(userID string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID: userID,
	})

	s, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// GetUserIDFromToken validates tokenString and returns its user id. Expired
// tokens yield common.ErrTokenExpired, anything else that fails validation
// yields common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}
