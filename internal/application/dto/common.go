package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RecentRequest query de GET /api/bills/recent.
type RecentRequest struct {
	Limit int `query:"limit"`
}

// DefaultLimit aplica el límite por defecto del historial si Limit no es válido.
func (r *RecentRequest) DefaultLimit(def int) {
	if r.Limit <= 0 || r.Limit > 500 {
		r.Limit = def
	}
}
