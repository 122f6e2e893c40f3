// internals/features/users/auth/service/token_service.go
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"pesantren_backend/internals/features/users/auth/dto"
)

var ErrTokenInvalid = errors.New("token invalid")

// SessionClaims: isi JWT sesi. Subject = username.
type SessionClaims struct {
	Role     string `json:"role"`
	Fullname string `json:"fullname"`
	jwt.RegisteredClaims
}

// TokenIssuer menerbitkan & memverifikasi JWT HS256. Hanya dipakai kalau
// AUTH_ISSUE_TOKEN / AUTH_REQUIRE_TOKEN aktif.
type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenIssuer{Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

func (t *TokenIssuer) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *TokenIssuer) Issue(user dto.LoginUser) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.TTL)
	claims := SessionClaims{
		Role:     user.Role,
		Fullname: user.Fullname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse memverifikasi token (boleh diawali "Bearer ").
func (t *TokenIssuer) Parse(raw string) (*SessionClaims, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return nil, ErrTokenInvalid
	}

	claims := &SessionClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	tok, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.Secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.ExpiresAt != nil && t.now().After(claims.ExpiresAt.Time) {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
