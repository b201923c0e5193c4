package http

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// pathParam devuelve el parámetro de ruta decodificado ("Paneer%20Tikka" → "Paneer Tikka").
func pathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(raw)
}
