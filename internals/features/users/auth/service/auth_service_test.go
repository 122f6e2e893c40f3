package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pesantren_backend/internals/databases/dbtest"
	"pesantren_backend/internals/features/users/auth/dto"
	"pesantren_backend/internals/helpers/apperror"
)

func seedUser(t *testing.T, db *gorm.DB, username, password, role, fullname string) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO users (username, password, role, fullname) VALUES (?, ?, ?, ?)`,
		username, HashPassword(password), role, fullname,
	).Error)
}

func TestLogin(t *testing.T) {
	db := dbtest.Open(t)
	seedUser(t, db, "admin", "admin123", "admin", "Ust. Administrator")
	svc := NewAuthService(db, nil)
	ctx := context.Background()

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Username)
	assert.Equal(t, "admin", resp.Role)
	assert.Equal(t, "Ust. Administrator", resp.Fullname)
	assert.Empty(t, resp.Token)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "admin1234"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "tidakada", Password: "admin123"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestLoginIssuesTokenWhenEnabled(t *testing.T) {
	db := dbtest.Open(t)
	seedUser(t, db, "bendahara", "kas2024", "bendahara", "Pak Hasan")

	issuer := NewTokenIssuer("s3cret", time.Hour)
	svc := NewAuthService(db, issuer)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "bendahara", Password: "kas2024"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := issuer.Parse("Bearer " + resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "bendahara", claims.Subject)
	assert.Equal(t, "bendahara", claims.Role)
	assert.Equal(t, "Pak Hasan", claims.Fullname)
	assert.Equal(t, resp.ExpiresAt, claims.ExpiresAt.Unix())
}

func TestTokenParseRejectsBadTokens(t *testing.T) {
	issuer := NewTokenIssuer("s3cret", time.Hour)
	tok, _, err := issuer.Issue(dto.LoginUser{Username: "u", Role: "admin"})
	require.NoError(t, err)

	_, err = NewTokenIssuer("lain", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = issuer.Parse("")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	expired := NewTokenIssuer("s3cret", time.Minute)
	expired.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue(dto.LoginUser{Username: "u"})
	require.NoError(t, err)
	_, err = issuer.Parse(old)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
