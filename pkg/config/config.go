package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	Store      StoreConfig
	DB         DBConfig
	JWT        JWTConfig
	Auth       AuthConfig
	Restaurant RestaurantConfig
	Invoice    InvoiceConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig selecciona dónde se guardan menú y cuentas.
// sqlite (por defecto) usa un archivo local; postgres usa DBConfig; memory no persiste.
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT. Secret vacío desactiva la autenticación (modo local).
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// AuthConfig hashes bcrypt de los PIN del personal.
type AuthConfig struct {
	AdminPINHash   string
	CashierPINHash string
}

// RestaurantConfig datos impresos en la factura y tasas de impuesto.
type RestaurantConfig struct {
	Name     string
	Address  string
	Phone    string
	Currency string // símbolo impreso antes de los montos
	Locale   string // etiqueta BCP 47 para separadores de miles
	// TaxRates categoría -> tasa (fracción o porcentaje). Formato env: "snacks=5,grocery=1,hygiene=10".
	TaxRates map[string]decimal.Decimal
}

// InvoiceConfig certificado opcional para firmar las facturas XML.
// CertPath .p12/.pfx usa CertPassword; PEM usa KeyPath (o el mismo archivo si está vacío).
type InvoiceConfig struct {
	CertPath     string
	KeyPath      string
	CertPassword string
}

// DefaultTaxRates tasas del restaurante si TAX_RATES no está definido.
const DefaultTaxRates = "snacks=5,grocery=1,hygiene=10"

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_DRIVER, SQLITE_PATH, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	taxRates, err := ParseTaxRates(getString(v, "TAX_RATES", DefaultTaxRates))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "restaurant-billing"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getString(v, "STORE_DRIVER", StoreSQLite)),
			SQLitePath: getString(v, "SQLITE_PATH", "bills.db"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "restaurant_billing"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "restaurant-billing"),
		},
		Auth: AuthConfig{
			AdminPINHash:   getString(v, "ADMIN_PIN_HASH", ""),
			CashierPINHash: getString(v, "CASHIER_PIN_HASH", ""),
		},
		Restaurant: RestaurantConfig{
			Name:     getString(v, "RESTAURANT_NAME", "Restaurante"),
			Address:  getString(v, "RESTAURANT_ADDRESS", ""),
			Phone:    getString(v, "RESTAURANT_PHONE", ""),
			Currency: getString(v, "CURRENCY_SYMBOL", "$"),
			Locale:   getString(v, "INVOICE_LOCALE", "en"),
			TaxRates: taxRates,
		},
		Invoice: InvoiceConfig{
			CertPath:     getString(v, "INVOICE_CERT_PATH", ""),
			KeyPath:      getString(v, "INVOICE_KEY_PATH", ""),
			CertPassword: getString(v, "INVOICE_CERT_PASSWORD", ""),
		},
	}

	switch cfg.Store.Driver {
	case StoreSQLite, StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("config: STORE_DRIVER desconocido %q", cfg.Store.Driver)
	}
	return cfg, nil
}

// ParseTaxRates interpreta "categoria=tasa,categoria=tasa". Las tasas pueden ir en
// porcentaje (5) o fracción (0.05); aquí se guardan tal cual.
func ParseTaxRates(s string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, raw, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("config: TAX_RATES mal formado en %q", part)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil || rate.IsNegative() {
			return nil, fmt.Errorf("config: tasa inválida para %q: %s", name, raw)
		}
		out[strings.ToLower(strings.TrimSpace(name))] = rate
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("config: TAX_RATES vacío")
	}
	return out, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
