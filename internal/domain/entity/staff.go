package entity

// Roles del personal del restaurante.
const (
	RoleAdmin   = "admin"  // administra el menú
	RoleCashier = "cajero" // registra y cierra cuentas
)
