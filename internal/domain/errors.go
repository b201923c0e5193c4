package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrDuplicateKey    = errors.New("el ítem ya existe en el menú")
	ErrDuplicateID     = errors.New("ya existe una cuenta con ese identificador")
	ErrInvalidQuantity = errors.New("la cantidad debe ser un entero positivo")
	ErrEmptyBill       = errors.New("la cuenta no tiene ítems")
	ErrBillFinalized   = errors.New("la cuenta ya fue cerrada")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
)
