package invoice

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MoneyFormatter formatea montos con el símbolo y los separadores del locale del emisor.
type MoneyFormatter struct {
	p        *message.Printer
	currency string
}

// NewMoneyFormatter construye el formateador. Un locale inválido usa inglés.
func NewMoneyFormatter(issuer Issuer) MoneyFormatter {
	tag, err := language.Parse(issuer.Locale)
	if err != nil {
		tag = language.English
	}
	return MoneyFormatter{p: message.NewPrinter(tag), currency: issuer.Currency}
}

// Format ej. "$1,234.50" (en) o "$1.234,50" (es).
func (f MoneyFormatter) Format(d decimal.Decimal) string {
	return f.currency + f.Number(d)
}

// Number monto con dos decimales y separador de miles, sin símbolo.
func (f MoneyFormatter) Number(d decimal.Decimal) string {
	return f.p.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
