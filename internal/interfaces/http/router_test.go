package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-billing/internal/application/auth"
	"github.com/jhoicas/restaurant-billing/internal/application/checkout"
	"github.com/jhoicas/restaurant-billing/internal/application/dto"
	"github.com/jhoicas/restaurant-billing/internal/application/history"
	"github.com/jhoicas/restaurant-billing/internal/application/invoice"
	"github.com/jhoicas/restaurant-billing/internal/application/menu"
	"github.com/jhoicas/restaurant-billing/internal/domain/billing"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/memory"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/textinvoice"
	apphttp "github.com/jhoicas/restaurant-billing/internal/interfaces/http"
)

var fixedNow = time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC)

type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newAPI(t *testing.T, secret string, pins auth.PINHashes) *apiClient {
	t.Helper()
	catalog := billing.NewCatalog(nil)
	bills := memory.NewBillRepository()
	menuUC := menu.NewMenuUseCase(catalog, memory.NewMenuRepository(), nil)
	svc := checkout.NewService(catalog, bills, nil,
		checkout.WithClock(func() time.Time { return fixedNow }),
	)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		MenuUC:    menuUC,
		Checkout:  svc,
		HistoryUC: history.NewHistoryUseCase(bills),
		ExportUC:  invoice.NewExportUseCase(bills, invoice.Issuer{Name: "Test Kitchen"}, nil, nil, textinvoice.New()),
		AuthUC:    auth.NewAuthUseCase(pins, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: testIssuer}),
		JWTSecret: secret,
	})
	return &apiClient{t: t, app: app}
}

func (a *apiClient) do(method, path string, body any) (*http.Response, []byte) {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", a.token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp, out
}

func (a *apiClient) seedMenu() {
	for _, in := range []dto.CreateMenuItemRequest{
		{Code: "S01", Name: "Samosa", UnitPrice: decimal.NewFromInt(20), Category: "snacks"},
		{Code: "M02", Name: "Pasta", UnitPrice: decimal.NewFromInt(120), Category: "grocery"},
		{Code: "S02", Name: "Paneer Tikka", UnitPrice: decimal.NewFromInt(150), Category: "snacks"},
	} {
		resp, body := a.do(http.MethodPost, "/api/menu", in)
		require.Equal(a.t, http.StatusCreated, resp.StatusCode, string(body))
	}
}

func decodeErr(t *testing.T, body []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestRouter_FlujoCompletoSinAuth(t *testing.T) {
	api := newAPI(t, "", auth.PINHashes{})
	api.seedMenu()

	resp, body := api.do(http.MethodPost, "/api/drafts", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var draft dto.DraftResponse
	require.NoError(t, json.Unmarshal(body, &draft))
	require.NotEmpty(t, draft.ID)
	base := "/api/drafts/" + draft.ID

	resp, _ = api.do(http.MethodPost, base+"/lines", dto.AddLineRequest{Item: "Samosa", Quantity: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = api.do(http.MethodPost, base+"/lines", dto.AddLineRequest{Item: "S01", Quantity: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = api.do(http.MethodPost, base+"/lines", dto.AddLineRequest{Item: "Paneer Tikka", Quantity: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = api.do(http.MethodPost, base+"/lines", dto.AddLineRequest{Item: "Pasta", Quantity: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = api.do(http.MethodDelete, base+"/lines/Paneer%20Tikka", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &draft))
	require.Len(t, draft.Lines, 2)
	assert.Equal(t, 3, draft.Lines[0].Quantity, "ítem repetido suma cantidad")
	assert.True(t, draft.Subtotal.Equal(decimal.NewFromInt(180)))
	assert.True(t, draft.Total.Equal(decimal.RequireFromString("184.20")))

	resp, body = api.do(http.MethodPost, base+"/checkout", dto.CheckoutRequest{CustomerName: "Ana", CustomerPhone: "3001234567"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var bill dto.BillResponse
	require.NoError(t, json.Unmarshal(body, &bill))
	assert.Len(t, bill.Number, 6)
	assert.True(t, bill.TaxTotal.Equal(decimal.RequireFromString("4.20")))
	assert.True(t, bill.Timestamp.Equal(fixedNow))

	// La cuenta abierta se cierra al guardar
	resp, _ = api.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = api.do(http.MethodGet, "/api/bills/"+bill.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.BillResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, bill.Number, got.Number)

	resp, _ = api.do(http.MethodGet, "/api/bills/number/"+bill.Number, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = api.do(http.MethodGet, "/api/bills?from=2026-03-01&to=2026-03-01", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var list dto.BillListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 1, list.Count)

	resp, body = api.do(http.MethodGet, "/api/bills?from=2026-03-02", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 0, list.Count)

	resp, body = api.do(http.MethodGet, "/api/bills/recent?limit=5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 1, list.Count)

	resp, body = api.do(http.MethodGet, "/api/bills/"+bill.ID+"/invoice?format=text", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_"+bill.Number+".txt")
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain"))
	assert.Contains(t, string(body), "Grand Total:")
}

func TestRouter_Errores(t *testing.T) {
	api := newAPI(t, "", auth.PINHashes{})
	api.seedMenu()

	resp, body := api.do(http.MethodPost, "/api/menu", dto.CreateMenuItemRequest{Name: "samosa", UnitPrice: decimal.NewFromInt(1), Category: "snacks"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decodeErr(t, body).Code)

	resp, body = api.do(http.MethodPost, "/api/menu", dto.CreateMenuItemRequest{Name: "Chai", UnitPrice: decimal.NewFromInt(1), Category: "drinks"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeErr(t, body).Code)

	resp, _ = api.do(http.MethodGet, "/api/menu/Nada", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = api.do(http.MethodPost, "/api/drafts", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var draft dto.DraftResponse
	require.NoError(t, json.Unmarshal(body, &draft))
	base := "/api/drafts/" + draft.ID

	resp, body = api.do(http.MethodPost, base+"/lines", dto.AddLineRequest{Item: "Samosa", Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUANTITY", decodeErr(t, body).Code)

	resp, body = api.do(http.MethodPost, base+"/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_BILL", decodeErr(t, body).Code)

	resp, body = api.do(http.MethodGet, "/api/bills?from=ayer", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeErr(t, body).Code)

	resp, _ = api.do(http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = api.do(http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ExportFormatoDesconocido(t *testing.T) {
	api := newAPI(t, "", auth.PINHashes{})
	api.seedMenu()

	_, body := api.do(http.MethodPost, "/api/drafts", nil)
	var draft dto.DraftResponse
	require.NoError(t, json.Unmarshal(body, &draft))
	api.do(http.MethodPost, "/api/drafts/"+draft.ID+"/lines", dto.AddLineRequest{Item: "Pasta", Quantity: 1})
	_, body = api.do(http.MethodPost, "/api/drafts/"+draft.ID+"/checkout", nil)
	var bill dto.BillResponse
	require.NoError(t, json.Unmarshal(body, &bill))

	resp, body := api.do(http.MethodGet, "/api/bills/"+bill.ID+"/invoice?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeErr(t, body).Code)

	resp, _ = api.do(http.MethodGet, "/api/bills/nope/invoice?format=text", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ConAuth(t *testing.T) {
	adminHash, err := auth.HashPIN("1234")
	require.NoError(t, err)
	cashierHash, err := auth.HashPIN("0000")
	require.NoError(t, err)
	api := newAPI(t, testJWTSecret, auth.PINHashes{Admin: adminHash, Cashier: cashierHash})

	resp, _ := api.do(http.MethodGet, "/api/menu", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := api.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{PIN: "9999"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	login := func(pin string) string {
		resp, body := api.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{PIN: pin})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var out dto.LoginResponse
		require.NoError(t, json.Unmarshal(body, &out))
		return "Bearer " + out.Token
	}

	api.token = login("0000")
	resp, body = api.do(http.MethodPost, "/api/menu", dto.CreateMenuItemRequest{Name: "Chai", UnitPrice: decimal.NewFromInt(15), Category: "snacks"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, string(body))
	resp, _ = api.do(http.MethodGet, "/api/menu", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = api.do(http.MethodPost, "/api/drafts", nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	api.token = login("1234")
	resp, body = api.do(http.MethodPost, "/api/menu", dto.CreateMenuItemRequest{Name: "Chai", UnitPrice: decimal.NewFromInt(15), Category: "snacks"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	price := decimal.RequireFromString("17.50")
	resp, body = api.do(http.MethodPut, "/api/menu/Chai", dto.UpdateMenuItemRequest{UnitPrice: &price})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var item dto.MenuItemResponse
	require.NoError(t, json.Unmarshal(body, &item))
	assert.True(t, item.UnitPrice.Equal(price))

	resp, _ = api.do(http.MethodDelete, "/api/menu/Chai", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRouter_Metrics(t *testing.T) {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:  auth.NewAuthUseCase(auth.PINHashes{}, auth.JWTConfig{}),
		Metrics: func(c *fiber.Ctx) error { return c.SendString("billing_bills_finalized_total 0") },
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
