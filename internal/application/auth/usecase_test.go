package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/restaurant-billing/internal/application/auth"
	"github.com/jhoicas/restaurant-billing/internal/application/dto"
	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/pkg/jwt"
)

const secret = "test-secret"

func hash(t *testing.T, pin string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin(t *testing.T) {
	uc := auth.NewAuthUseCase(
		auth.PINHashes{Admin: hash(t, "9999"), Cashier: hash(t, "1234")},
		auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "test"},
	)
	require.True(t, uc.Enabled())

	out, err := uc.Login(dto.LoginRequest{PIN: "1234"})
	require.NoError(t, err)
	assert.Equal(t, "cajero", out.Role)
	assert.Equal(t, 1800, out.ExpiresIn)
	_, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "cajero", role)

	out, err = uc.Login(dto.LoginRequest{PIN: " 9999 "})
	require.NoError(t, err)
	assert.Equal(t, "admin", out.Role)

	_, err = uc.Login(dto.LoginRequest{PIN: "0000"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_Desactivado(t *testing.T) {
	uc := auth.NewAuthUseCase(auth.PINHashes{Cashier: hash(t, "1234")}, auth.JWTConfig{})
	assert.False(t, uc.Enabled())
	_, err := uc.Login(dto.LoginRequest{PIN: "1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHashPIN(t *testing.T) {
	h, err := auth.HashPIN("4321")
	require.NoError(t, err)
	uc := auth.NewAuthUseCase(auth.PINHashes{Cashier: h}, auth.JWTConfig{Secret: secret, ExpMinutes: 1})
	_, err = uc.Login(dto.LoginRequest{PIN: "4321"})
	assert.NoError(t, err)
}
