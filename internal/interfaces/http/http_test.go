package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/stock-ledger/internal/infrastructure/redis"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/internal/observability"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "stock-ledger-test"
)

func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := memory.NewStore()
	metrics := observability.NewMetrics("stock_ledger")
	l := inventory.NewLedger(store, infraredis.NewIdempotencyStore(client, time.Hour), metrics, nil)
	stock := inventory.NewStockUseCase(l)
	return apphttp.NewApp(apphttp.AppConfig{Name: "stock-ledger-test"}, apphttp.RouterDeps{
		Catalog:   inventory.NewCatalogUseCase(l, store.Items(), pdf.NewLowStockReport("stock-ledger")),
		Stock:     stock,
		Logs:      inventory.NewLogUseCase(l, store.Items(), store.Movements()),
		Batches:   inventory.NewBatchUseCase(store.Batches(), store.Items(), stock),
		Overview:  inventory.NewOverviewUseCase(store.Items(), store.Movements()),
		Metrics:   metrics,
		JWTSecret: testJWTSecret,
		JWTIssuer: testIssuer,
	})
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, "u-"+role, "usuario "+role, role, testIssuer, 60)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

type call struct {
	method string
	path   string
	body   any
	auth   string
	header map[string]string
}

func do(t *testing.T, app *fiber.App, c call) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if c.body != nil {
		raw, err := json.Marshal(c.body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(c.method, c.path, r)
	if c.body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if c.auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, c.auth)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func createItem(t *testing.T, app *fiber.App, auth string, body map[string]any) string {
	t.Helper()
	resp, raw := do(t, app, call{method: http.MethodPost, path: "/api/items", body: body, auth: auth})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	id, _ := decode(t, raw)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth y RBAC
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_SinTokenRetorna401(t *testing.T) {
	app := buildTestApp(t)
	resp, body := do(t, app, call{method: http.MethodGet, path: "/api/items"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decode(t, body)["code"])

	resp, _ = do(t, app, call{method: http.MethodGet, path: "/api/items", auth: "Bearer token.invalido.aqui"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, call{method: http.MethodGet, path: "/api/items", auth: "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_TokenSinRolRetorna401EnRutaAdmin(t *testing.T) {
	app := buildTestApp(t)
	resp, body := do(t, app, call{method: http.MethodDelete, path: "/api/items/x", auth: tokenForRole(t, "")})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decode(t, body)["code"])
}

func TestRequireRole_StaffBloqueadoEnRutasAdmin(t *testing.T) {
	app := buildTestApp(t)
	staff := tokenForRole(t, "staff")
	id := createItem(t, app, staff, map[string]any{"class": "product", "name": "Vela", "quantity": 3})

	for _, c := range []call{
		{method: http.MethodDelete, path: "/api/items/" + id},
		{method: http.MethodPut, path: "/api/logs/abc", body: map[string]any{"date": "2026-03-10"}},
		{method: http.MethodDelete, path: "/api/logs/abc"},
		{method: http.MethodDelete, path: "/api/batches/abc"},
	} {
		c.auth = staff
		resp, body := do(t, app, c)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, c.method+" "+c.path)
		assert.Equal(t, "FORBIDDEN", decode(t, body)["code"])
	}

	resp, _ := do(t, app, call{method: http.MethodDelete, path: "/api/items/" + id, auth: tokenForRole(t, "admin")})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Items y ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestItems_AjusteYStockInsuficiente(t *testing.T) {
	app := buildTestApp(t)
	auth := tokenForRole(t, "staff")
	id := createItem(t, app, auth, map[string]any{"class": "product", "name": "Jabón", "quantity": 10, "reorder_level": 5})

	resp, body := do(t, app, call{method: http.MethodPost, path: "/api/items/" + id + "/adjust", auth: auth,
		body: map[string]any{"amount": 7, "direction": "remove"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	item := decode(t, body)["item"].(map[string]any)
	assert.Equal(t, "3", item["quantity"])
	assert.Equal(t, true, item["low_stock"])

	resp, body = do(t, app, call{method: http.MethodPost, path: "/api/items/" + id + "/adjust", auth: auth,
		body: map[string]any{"amount": 4, "direction": "remove"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	e := decode(t, body)
	assert.Equal(t, "INSUFFICIENT_STOCK", e["code"])
	assert.Equal(t, id, e["item_id"])

	resp, body = do(t, app, call{method: http.MethodGet, path: "/api/items/" + id, auth: auth})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "3", decode(t, body)["quantity"], "el rechazo no modifica el saldo")
}

func TestItems_Validaciones(t *testing.T) {
	app := buildTestApp(t)
	auth := tokenForRole(t, "staff")

	resp, body := do(t, app, call{method: http.MethodPost, path: "/api/items", auth: auth,
		body: map[string]any{"class": "gadget", "name": "X"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decode(t, body)
	assert.Equal(t, "VALIDATION", e["code"])
	assert.Equal(t, "class", e["field"])

	id := createItem(t, app, auth, map[string]any{"class": "material", "name": "Harina", "quantity": "2.5"})
	resp, body = do(t, app, call{method: http.MethodPost, path: "/api/items/" + id + "/adjust", auth: auth,
		body: map[string]any{"amount": 1, "direction": "sideways"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "direction", decode(t, body)["field"])

	resp, body = do(t, app, call{method: http.MethodGet, path: "/api/items/no-existe", auth: auth})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode(t, body)["code"])
}

func TestItems_IdempotencyKey(t *testing.T) {
	app := buildTestApp(t)
	auth := tokenForRole(t, "staff")
	id := createItem(t, app, auth, map[string]any{"class": "product", "name": "Vela", "quantity": 1})

	adjust := call{method: http.MethodPost, path: "/api/items/" + id + "/adjust", auth: auth,
		body:   map[string]any{"amount": 2, "direction": "add"},
		header: map[string]string{apphttp.HeaderIdempotencyKey: "k-1"}}
	resp, _ := do(t, app, adjust)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := do(t, app, adjust)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_REQUEST", decode(t, body)["code"])

	resp, body = do(t, app, call{method: http.MethodGet, path: "/api/items/" + id, auth: auth})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "3", decode(t, body)["quantity"], "la repetición no se aplica")
}

func TestItems_LowStockYReportePDF(t *testing.T) {
	app := buildTestApp(t)
	auth := tokenForRole(t, "staff")
	createItem(t, app, auth, map[string]any{"class": "material", "name": "Sal", "quantity": 1, "reorder_level": 5})
	createItem(t, app, auth, map[string]any{"class": "material", "name": "Azúcar", "quantity": 50, "reorder_level": 5})

	resp, body := do(t, app, call{method: http.MethodGet, path: "/api/items/low-stock?class=material", auth: auth})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.EqualValues(t, 1, decode(t, body)["total"])

	resp, body = do(t, app, call{method: http.MethodGet, path: "/api/items/low-stock/report?class=material", auth: auth})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, body = do(t, app, call{method: http.MethodGet, path: "/api/dashboard", auth: auth})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decode(t, body)["low_stock_count"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Logs, batches y overview
// ──────────────────────────────────────────────────────────────────────────────

func TestLogs_BulkListEditDelete(t *testing.T) {
	app := buildTestApp(t)
	staff := tokenForRole(t, "staff")
	admin := tokenForRole(t, "admin")
	id := createItem(t, app, staff, map[string]any{"class": "material", "name": "Cera", "quantity": 100})

	resp, body := do(t, app, call{method: http.MethodPost, path: "/api/logs/bulk", auth: staff, body: map[string]any{
		"date":  time.Now().UTC().Format("2006-01-02"),
		"class": "material",
		"entries": []map[string]any{
			{"item_id": id, "stock_out": 20},
		},
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.EqualValues(t, 1, decode(t, body)["saved"])

	resp, body = do(t, app, call{method: http.MethodGet, path: "/api/logs?item_id=" + id, auth: staff})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	items := decode(t, body)["items"].([]any)
	require.Len(t, items, 2)
	newest := items[0].(map[string]any)
	assert.Equal(t, "20", newest["stock_out"])
	logID := newest["id"].(string)

	resp, body = do(t, app, call{method: http.MethodPut, path: "/api/logs/" + logID, auth: admin, body: map[string]any{
		"date": newest["date"], "stock_out": 30,
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "70", decode(t, body)["item"].(map[string]any)["quantity"])

	resp, body = do(t, app, call{method: http.MethodDelete, path: "/api/logs/" + logID, auth: admin})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "100", decode(t, body)["quantity"])

	resp, _ = do(t, app, call{method: http.MethodGet, path: "/api/logs?limit=9999", auth: staff})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatches_SaveApplyConsume(t *testing.T) {
	app := buildTestApp(t)
	auth := tokenForRole(t, "staff")
	x := createItem(t, app, auth, map[string]any{"class": "material", "name": "Parafina", "quantity": 50})

	resp, body := do(t, app, call{method: http.MethodPost, path: "/api/batches", auth: auth, body: map[string]any{
		"name":  "Vela grande",
		"items": []map[string]any{{"material_id": x, "qty": "2.5"}},
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	batchID := decode(t, body)["id"].(string)

	resp, body = do(t, app, call{method: http.MethodPost, path: "/api/batches/" + batchID + "/apply", auth: auth,
		body: map[string]any{"multiplier": 4}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	entries := decode(t, body)["entries"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "10", entries[0].(map[string]any)["stock_out"])

	resp, body = do(t, app, call{method: http.MethodPost, path: "/api/batches/" + batchID + "/consume", auth: auth,
		body: map[string]any{"multiplier": 4, "date": time.Now().UTC().Format("2006-01-02")}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = do(t, app, call{method: http.MethodGet, path: "/api/items/" + x, auth: auth})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "40", decode(t, body)["quantity"])

	resp, body = do(t, app, call{method: http.MethodGet, path: "/api/batches", auth: auth})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, decode(t, body)["total"])
}

func TestOverview_Rango(t *testing.T) {
	app := buildTestApp(t)
	auth := tokenForRole(t, "staff")
	createItem(t, app, auth, map[string]any{"class": "product", "name": "Vela", "quantity": 5})
	today := time.Now().UTC().Format("2006-01-02")

	resp, body := do(t, app, call{method: http.MethodGet, path: "/api/overview?start=" + today + "&end=" + today, auth: auth})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	summary := decode(t, body)["product_summary"].(map[string]any)
	assert.Equal(t, "5", summary["in"])

	resp, _ = do(t, app, call{method: http.MethodGet, path: "/api/overview?start=ayer&end=" + today, auth: auth})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Health y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthYMetrics(t *testing.T) {
	app := buildTestApp(t)
	auth := tokenForRole(t, "staff")
	createItem(t, app, auth, map[string]any{"class": "product", "name": "Vela", "quantity": 5})

	resp, body := do(t, app, call{method: http.MethodGet, path: "/health"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode(t, body)["status"])

	resp, body = do(t, app, call{method: http.MethodGet, path: "/metrics"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "stock_ledger_movements_committed_total")
	assert.Contains(t, string(body), "stock_ledger_http_requests_total")
}
