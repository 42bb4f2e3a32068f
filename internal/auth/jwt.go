// Package auth verifies the storefront session token. Sign-in itself belongs
// to the identity service; this package only checks what it issued.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the storefront session payload
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Session is a verified caller. Token is forwarded verbatim to the cart backend.
type Session struct {
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// SessionVerifier checks HS256 session tokens
type SessionVerifier struct {
	secretKey []byte
	now       func() time.Time
}

func NewSessionVerifier(secretKey string) *SessionVerifier {
	return &SessionVerifier{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}
}

// Verify validates tokenString and returns the session it represents.
func (v *SessionVerifier) Verify(tokenString string) (*Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secretKey, nil
	}, jwt.WithTimeFunc(v.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return nil, ErrInvalidToken
	}

	session := &Session{
		UserID: userID,
		Email:  claims.Email,
		Token:  tokenString,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// Issue signs a session token. The storefront uses tokens minted by the
// identity service; Issue exists for local runs and tests.
func (v *SessionVerifier) Issue(userID, email string, ttl time.Duration) (string, time.Time, error) {
	now := v.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(v.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}
