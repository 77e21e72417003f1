package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"verdantshop/internal/config"
	"verdantshop/internal/http/handlers"
	"verdantshop/internal/repos"
)

func newTestApp(t *testing.T) (*fiber.App, *handlers.Deps) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// Bind a ready-made session for each seeded user so tests can act as
	// them with a cookie instead of paying for a bcrypt login each time.
	userRepo := repos.NewUserRepo(db)
	require.NoError(t, userRepo.BindSession("sid-alice", "u-alice"))
	require.NoError(t, userRepo.BindSession("sid-admin", "u-admin"))

	deps := handlers.NewDeps(db, config.Config{EmailBackend: "console"})

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/auth/login", deps.AuthHandler.Login)
	api.Get("/auth/me", deps.AuthHandler.Me)
	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Get)
	api.Get("/products/:id/reviews", deps.ProductHandler.ListReviews)
	api.Get("/search", deps.SearchHandler.Search)
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart/items", deps.CartHandler.Add)
	api.Post("/orders", deps.OrderHandler.Checkout)

	user := api.Group("", handlers.RequireUser(deps.Auth))
	user.Post("/stock-alerts", deps.StockAlertHandler.Subscribe)
	user.Get("/notifications", deps.NotificationHandler.List)

	admin := api.Group("/admin", handlers.RequireAdmin(deps.Auth))
	admin.Put("/products/:id/stock", deps.AdminHandler.SetStock)
	admin.Post("/stock-monitor/run", deps.AdminHandler.RunMonitor)
	return app, deps
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, sid string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	_ = resp.Body.Close()
}

func TestCatalogEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "GET", "/api/v1/categories", "", "")
	require.Equal(t, 200, resp.StatusCode)
	var cats []map[string]any
	decode(t, resp, &cats)
	require.Len(t, cats, 3)

	resp = doJSON(t, app, "GET", "/api/v1/products/lamp-solar", "", "")
	require.Equal(t, 200, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/products/no-such-thing", "", "")
	require.Equal(t, 404, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/v1/search?q=solar", "", "")
	require.Equal(t, 200, resp.StatusCode)
	var hits struct {
		Products []map[string]any `json:"products"`
	}
	decode(t, resp, &hits)
	require.NotEmpty(t, hits.Products)
}

func TestCartAndCheckout(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/cart/items", `{"product_id":"bulb-led","qty":2}`, "sid-alice")
	require.Equal(t, 200, resp.StatusCode)
	var cart struct {
		Items []map[string]any `json:"items"`
		Total float64          `json:"total"`
	}
	decode(t, resp, &cart)
	require.Len(t, cart.Items, 1)
	require.InDelta(t, 22.50, cart.Total, 0.001)

	// Unavailable products are rejected at add time.
	resp = doJSON(t, app, "POST", "/api/v1/cart/items", `{"product_id":"brush-bamboo"}`, "sid-alice")
	require.Equal(t, 409, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/orders", `{"name":"Alice","email":"alice@verdantshop.test"}`, "sid-alice")
	require.Equal(t, 201, resp.StatusCode)
	var placed map[string]any
	decode(t, resp, &placed)
	require.NotEmpty(t, placed["order_id"])
}

func TestAuthGuards(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "GET", "/api/v1/notifications", "", "")
	require.Equal(t, 401, resp.StatusCode)

	resp = doJSON(t, app, "PUT", "/api/v1/admin/products/lamp-solar/stock", `{"qty":3}`, "sid-alice")
	require.Equal(t, 403, resp.StatusCode)

	resp = doJSON(t, app, "PUT", "/api/v1/admin/products/lamp-solar/stock", `{"qty":3}`, "sid-admin")
	require.Equal(t, 200, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/auth/login", `{"email":"alice@verdantshop.test","password":"wrong-password"}`, "")
	require.Equal(t, 401, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/auth/login", `{"email":"alice@verdantshop.test","password":"Passw0rd!"}`, "")
	require.Equal(t, 200, resp.StatusCode)

	var sid string
	for _, ck := range resp.Cookies() {
		if ck.Name == "sid" {
			sid = ck.Value
		}
	}
	require.NotEmpty(t, sid)

	resp = doJSON(t, app, "GET", "/api/v1/auth/me", "", sid)
	require.Equal(t, 200, resp.StatusCode)
	var me map[string]any
	decode(t, resp, &me)
	require.Equal(t, "alice@verdantshop.test", me["email"])
}

func TestRestockFlow_AlertToNotification(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/stock-alerts", `{"product_id":"brush-bamboo"}`, "sid-alice")
	require.Equal(t, 201, resp.StatusCode)

	resp = doJSON(t, app, "PUT", "/api/v1/admin/products/brush-bamboo/stock", `{"qty":7}`, "sid-admin")
	require.Equal(t, 200, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/v1/admin/stock-monitor/run", "", "sid-admin")
	require.Equal(t, 200, resp.StatusCode)
	var rep map[string]any
	decode(t, resp, &rep)
	require.EqualValues(t, 1, rep["notifications_sent"])

	resp = doJSON(t, app, "GET", "/api/v1/notifications", "", "sid-alice")
	require.Equal(t, 200, resp.StatusCode)
	var list struct {
		Notifications []map[string]any `json:"notifications"`
		Unread        int              `json:"unread"`
	}
	decode(t, resp, &list)
	require.Equal(t, 1, list.Unread)
	require.Equal(t, "stock_alert", list.Notifications[0]["type"])
}
