package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mockupi/mockupi/internal/account"
	"github.com/mockupi/mockupi/internal/config"
	"github.com/mockupi/mockupi/internal/middleware"
	"github.com/mockupi/mockupi/internal/notification"
	"github.com/mockupi/mockupi/internal/qr"
	"github.com/mockupi/mockupi/internal/session"
	"github.com/mockupi/mockupi/internal/storage"
	"github.com/mockupi/mockupi/internal/storage/memory"
	"github.com/mockupi/mockupi/internal/storage/postgres"
	"github.com/mockupi/mockupi/internal/transfer"
	"github.com/mockupi/mockupi/internal/web"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Handlers carries the services every page handler needs.
type Handlers struct {
	accounts  *account.Service
	transfers *transfer.Service
	sessions  *session.Manager
	qr        *qr.Renderer
	logger    *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce backing services outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	var store storage.Store
	if d.DB != nil {
		store = postgres.New(d.DB)
	} else {
		store = memory.New()
	}

	var sessionStore session.Store
	if d.Cache != nil {
		sessionStore = session.NewRedisStore(d.Cache)
	} else {
		sessionStore = session.NewMemoryStore()
	}
	sessions := session.NewManager(sessionStore, []byte(d.Cfg.SessionSecret), d.Cfg.SessionTTL)

	notifier := notification.NewLoggerNotifier(d.Logger)
	h := &Handlers{
		accounts:  account.NewService(store, d.Cfg.PaymentDomain, d.Cfg.OpeningBalance),
		transfers: transfer.NewService(store, notifier, d.Logger),
		sessions:  sessions,
		qr:        qr.NewRenderer(d.Cfg.QRCacheDir),
		logger:    d.Logger,
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	// Public pages
	app.Get("/", h.Home)
	app.Get("/register", h.RegisterForm)
	app.Post("/register", h.Register)
	app.Get("/login", h.LoginForm)
	app.Post("/login", middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit), h.Login)
	app.Get("/logout", h.Logout)

	// Pages behind a session
	authed := app.Group("", middleware.RequireSession(sessions, store))
	authed.Get("/dashboard", h.Dashboard)
	authed.Post("/transfer", h.Transfer)
	authed.Get("/history", h.History)

	return nil
}

// pageData builds the common template payload: title, flash and auth state.
func (h *Handlers) pageData(c *fiber.Ctx, title string) fiber.Map {
	_, authed := middleware.AccountFromCtx(c)
	if !authed {
		// outside the protected group the cookie is the only signal
		if token := c.Cookies(session.CookieName); token != "" {
			_, err := h.sessions.Resolve(c.UserContext(), token)
			authed = err == nil
		}
	}

	data := fiber.Map{
		"Title":  title,
		"Authed": authed,
	}
	if flash := web.PopFlash(c); flash != nil {
		data["Flash"] = flash
	}
	return data
}
