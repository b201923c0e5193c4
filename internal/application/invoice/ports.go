package invoice

import (
	"context"

	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
)

// Issuer datos del restaurante impresos en la factura.
type Issuer struct {
	Name     string
	Address  string
	Phone    string
	Currency string // símbolo antes de los montos, ej. "$"
	Locale   string // etiqueta BCP 47 para separadores de miles
}

// Renderer genera la representación de una cuenta cerrada en un formato.
type Renderer interface {
	// Format nombre del formato en la query (?format=pdf).
	Format() string
	ContentType() string
	Extension() string
	Render(ctx context.Context, bill *entity.Bill, issuer Issuer) ([]byte, error)
}
