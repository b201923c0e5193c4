package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/restaurant-billing/internal/application/dto"
	"github.com/jhoicas/restaurant-billing/internal/domain"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
	"github.com/jhoicas/restaurant-billing/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// PINHashes hashes bcrypt de los PIN por rol. Un hash vacío desactiva ese rol.
type PINHashes struct {
	Admin   string
	Cashier string
}

// AuthUseCase login del personal por PIN.
type AuthUseCase struct {
	pins   PINHashes
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(pins PINHashes, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{pins: pins, jwtCfg: jwtCfg}
}

// Enabled indica si la API exige token. Sin JWT_SECRET el mostrador opera en modo local.
func (uc *AuthUseCase) Enabled() bool {
	return uc.jwtCfg.Secret != ""
}

// Login verifica el PIN contra los hashes configurados y emite un token con el rol.
// El rol admin tiene prioridad si ambos hashes aceptan el mismo PIN.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if !uc.Enabled() {
		return nil, fmt.Errorf("%w: autenticación desactivada", domain.ErrInvalidInput)
	}
	pin := strings.TrimSpace(in.PIN)
	if pin == "" {
		return nil, fmt.Errorf("%w: pin requerido", domain.ErrInvalidInput)
	}
	var role string
	switch {
	case matches(uc.pins.Admin, pin):
		role = entity.RoleAdmin
	case matches(uc.pins.Cashier, pin):
		role = entity.RoleCashier
	default:
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, role, role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Role: role, ExpiresIn: uc.jwtCfg.ExpMinutes * 60}, nil
}

// HashPIN genera el hash bcrypt para ADMIN_PIN_HASH / CASHIER_PIN_HASH.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func matches(hash, pin string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
