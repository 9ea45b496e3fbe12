package middleware

import (
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mockupi/mockupi/internal/logging"
)

func setupIdempotencyApp(t *testing.T) (*fiber.App, *atomic.Int64, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))

	var calls atomic.Int64
	app.Post("/transfer", func(c *fiber.Ctx) error {
		calls.Add(1)
		return c.Status(fiber.StatusSeeOther).SendString("done")
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}
	return app, &calls, cleanup
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode, string(body)
}

func TestIdempotencyWithoutTokenIsPassthrough(t *testing.T) {
	app, calls, cleanup := setupIdempotencyApp(t)
	defer cleanup()

	form := url.Values{"amount": {"10"}}
	postForm(t, app, "/transfer", form)
	postForm(t, app, "/transfer", form)

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected handler to run twice without token, got %d", got)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	app, calls, cleanup := setupIdempotencyApp(t)
	defer cleanup()

	form := url.Values{"amount": {"10"}, "request_token": {"tok-1"}}

	status1, body1 := postForm(t, app, "/transfer", form)
	status2, body2 := postForm(t, app, "/transfer", form)

	if status1 != fiber.StatusSeeOther || status2 != status1 {
		t.Fatalf("expected matching statuses, got %d and %d", status1, status2)
	}
	if body1 != body2 {
		t.Fatalf("expected replayed body %q, got %q", body1, body2)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected handler to run once, got %d", got)
	}
}

func TestIdempotencyDistinctTokensRunSeparately(t *testing.T) {
	app, calls, cleanup := setupIdempotencyApp(t)
	defer cleanup()

	postForm(t, app, "/transfer", url.Values{"request_token": {"tok-a"}})
	postForm(t, app, "/transfer", url.Values{"request_token": {"tok-b"}})

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected two handler runs, got %d", got)
	}
}
