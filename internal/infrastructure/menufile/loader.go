// Package menufile lee menús en YAML para sembrar el catálogo.
//
//	items:
//	  - {code: S01, name: Samosa, price: "20", category: snacks}
package menufile

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/restaurant-billing/internal/application/dto"
)

//go:embed default_menu.yaml
var defaultMenu []byte

type file struct {
	Items []item `yaml:"items"`
}

type item struct {
	Code     string `yaml:"code"`
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Category string `yaml:"category"`
}

// Default devuelve el menú por defecto incluido en el binario.
func Default() ([]dto.CreateMenuItemRequest, error) {
	return Parse(defaultMenu)
}

// Load lee un menú desde path.
func Load(path string) ([]dto.CreateMenuItemRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("menufile: leer %s: %w", path, err)
	}
	items, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// Parse interpreta el YAML. Nombre y precio son obligatorios en cada ítem.
func Parse(raw []byte) ([]dto.CreateMenuItemRequest, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("menufile: yaml inválido: %w", err)
	}
	out := make([]dto.CreateMenuItemRequest, 0, len(f.Items))
	for i, it := range f.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fmt.Errorf("menufile: ítem %d sin nombre", i+1)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(it.Price))
		if err != nil {
			return nil, fmt.Errorf("menufile: precio de %q: %w", name, err)
		}
		out = append(out, dto.CreateMenuItemRequest{
			Code:      strings.TrimSpace(it.Code),
			Name:      name,
			UnitPrice: price,
			Category:  it.Category,
		})
	}
	return out, nil
}
